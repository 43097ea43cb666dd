package placement

// Store persists boards by name.
type Store interface {
	SaveBoard(name string, objects []Object) error
	LoadBoard(name string) ([]Object, error)
	Close() error
}

// Save writes the board's current objects to the store.
func (b *Board) Save(s Store, name string) error {
	return s.SaveBoard(name, b.Objects())
}

// Load replaces the board with the stored objects.
func (b *Board) Load(s Store, name string) error {
	objects, err := s.LoadBoard(name)
	if err != nil {
		return err
	}
	b.Reset(objects)
	return nil
}
