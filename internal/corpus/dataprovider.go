package corpus

// DataProvider reads the files bundled with the binary: the default corpus
// and its schema. Names are relative to the data root, e.g.
// "data/search-index.json".
type DataProvider interface {
	ReadFile(name string) ([]byte, error)
}
