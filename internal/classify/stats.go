package classify

// Aggregate returns the total size and the file count per category.
func Aggregate(files []File) (bytes map[string]int64, counts map[string]int64) {
	bytes = make(map[string]int64)
	counts = make(map[string]int64)

	for _, f := range files {
		bytes[f.Category] += f.Size
		counts[f.Category]++
	}

	return bytes, counts
}

// Dominant returns the category holding the most bytes.
// Ties go to the category encountered first in files; an empty list yields Other.
func Dominant(files []File) string {
	if len(files) == 0 {
		return Other
	}

	order := make([]string, 0)
	sizes := make(map[string]int64)

	for _, f := range files {
		if _, ok := sizes[f.Category]; !ok {
			order = append(order, f.Category)
		}

		sizes[f.Category] += f.Size
	}

	best := order[0]
	for _, cat := range order[1:] {
		if sizes[cat] > sizes[best] {
			best = cat
		}
	}

	return best
}
