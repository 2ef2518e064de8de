package local

import (
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/storage"
)

// Session owns the local state of one running shelf: the overlay, the
// favorites and the ephemeral favorites-only flag. All mutation goes through
// its methods, each of which hands a fresh snapshot to the writer. A Session
// is not safe for concurrent use; the UI event loop is its only writer.
type Session struct {
	overlay   Overlay
	favorites Favorites
	showOnly  bool
	writer    storage.Writer
}

// NewSession hydrates a session from store. Writes go to writer, which is
// normally a *storage.WriteBehind wrapping the same store. A nil writer
// keeps the session in memory only.
func NewSession(store *storage.Store, writer storage.Writer) *Session {
	return &Session{
		overlay:   HydrateOverlay(store),
		favorites: HydrateFavorites(store),
		writer:    writer,
	}
}

// Overlay returns the current overlay snapshot.
func (s *Session) Overlay() Overlay { return s.overlay }

// Favorites returns the current favorites snapshot.
func (s *Session) Favorites() Favorites { return s.favorites }

// ShowOnlyFavorites reports the favorites-only view flag.
func (s *Session) ShowOnlyFavorites() bool { return s.showOnly }

// Upsert stores p under id (or a fresh local id when id is empty) and
// returns the id used.
func (s *Session) Upsert(id catalog.ID, p catalog.Product) catalog.ID {
	var assigned catalog.ID
	s.overlay, assigned = s.overlay.Upsert(id, p)
	s.saveOverlay()
	return assigned
}

// Remove soft-deletes id.
func (s *Session) Remove(id catalog.ID) {
	s.overlay = s.overlay.Remove(id)
	s.saveOverlay()
}

// ResetLocal clears local edits, creations and removals. Favorites survive.
func (s *Session) ResetLocal() {
	s.overlay = s.overlay.Reset()
	s.saveOverlay()
}

// ToggleFavorite flips the favorite state of id.
func (s *Session) ToggleFavorite(id catalog.ID) {
	s.favorites = s.favorites.Toggle(id)
	if s.writer != nil {
		s.writer.Set(FavoritesKey, DehydrateFavorites(s.favorites))
	}
}

// ToggleShowOnlyFavorites flips the favorites-only view flag. The flag is
// not persisted.
func (s *Session) ToggleShowOnlyFavorites() {
	s.showOnly = !s.showOnly
}

// SetShowOnlyFavorites sets the favorites-only view flag.
func (s *Session) SetShowOnlyFavorites(on bool) {
	s.showOnly = on
}

func (s *Session) saveOverlay() {
	if s.writer != nil {
		s.writer.Set(OverlayKey, DehydrateOverlay(s.overlay))
	}
}
