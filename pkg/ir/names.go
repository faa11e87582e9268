package ir

// Collection is a named, ordered list of element names from one file.
type Collection struct {
	Name  string
	Names []string
}

// Collections returns the name lists of every collection in f, in
// serialization order.
func Collections(f ParsedFile) []Collection {
	return Match(f,
		func(m *ModuleFile) []Collection {
			return []Collection{{Name: "exports", Names: names(m.Exports)}}
		},
		func(c *ComponentFile) []Collection {
			return []Collection{
				{Name: "props", Names: names(c.Props)},
				{Name: "events", Names: names(c.Events)},
				{Name: "slots", Names: names(c.Slots)},
				{Name: "exports", Names: names(c.Exports)},
			}
		},
	)
}

// Duplicates returns, per collection, the names that occur more than once.
// Collections without duplicates are omitted.
func Duplicates(f ParsedFile) map[string][]string {
	out := make(map[string][]string)
	for _, c := range Collections(f) {
		seen := make(map[string]int, len(c.Names))
		for _, n := range c.Names {
			seen[n]++
			if seen[n] == 2 {
				out[c.Name] = append(out[c.Name], n)
			}
		}
	}
	return out
}

func names[E Element](items []E) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ElementName())
	}
	return out
}
