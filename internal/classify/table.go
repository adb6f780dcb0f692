package classify

import (
	"slices"
	"strings"
)

// builtinTable lists the built-in categories in lookup order.
// Some extensions (".exe", ".dmg", ...) appear in more than one set; the earlier category wins.
//
//nolint:gochecknoglobals // Static lookup table
var builtinTable = []struct {
	name string
	exts []string
}{
	{"images", []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp", ".svg",
		".raw", ".cr2", ".nef", ".arw", ".dng", ".raf", ".orf", ".rw2",
		".pef", ".srw", ".x3f", ".ico", ".heic", ".heif", ".avif",
	}},
	{"videos", []string{
		".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm", ".m4v",
		".3gp", ".mpg", ".mpeg", ".m2v", ".mts", ".ts", ".vob", ".rm",
		".rmvb", ".asf", ".ogv", ".dv", ".f4v", ".m4p", ".divx",
	}},
	{"audio", []string{
		".mp3", ".flac", ".wav", ".aac", ".ogg", ".m4a", ".wma", ".opus",
		".mp2", ".aiff", ".au", ".ra", ".ac3", ".dts", ".ape", ".tak",
		".tta", ".wv", ".mka", ".caf", ".amr", ".3ga",
	}},
	{"documents", []string{
		".pdf", ".epub", ".mobi", ".chm", ".djvu", ".fb2", ".azw", ".azw3",
		".azw4", ".lit", ".pdb", ".tcr", ".lrf", ".rb", ".pml", ".tr2", ".tr3",
	}},
	{"office", []string{
		".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".md", ".txt",
		".rtf", ".odt", ".ods", ".odp", ".odg", ".odf", ".sxw", ".sxc",
		".sxi", ".wpd", ".wps", ".pages", ".numbers", ".key", ".tex",
	}},
	{"archives", []string{
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".lzma",
		".cab", ".iso", ".dmg", ".pkg", ".deb", ".rpm", ".msi", ".exe",
		".z", ".lz", ".lzo", ".rz", ".sz", ".dz", ".tbz2", ".tgz", ".txz",
	}},
	{"code", []string{
		".py", ".js", ".html", ".css", ".java", ".cpp", ".c", ".rs", ".go",
		".json", ".xml", ".yaml", ".yml", ".ini", ".cfg", ".conf", ".php",
		".rb", ".pl", ".sh", ".bat", ".ps1", ".vbs", ".lua", ".r", ".m",
		".swift", ".kt", ".scala", ".hs", ".clj", ".fs", ".ml", ".pas",
	}},
	{"system", []string{
		".exe", ".dll", ".sys", ".drv", ".ocx", ".cpl", ".scr", ".com",
		".app", ".dmg", ".pkg", ".deb", ".rpm", ".so", ".dylib", ".ko",
		".bin", ".run", ".bundle", ".framework", ".kext", ".prefpane",
	}},
}

//nolint:gochecknoglobals // Static lookup table
var displayNames = map[string]string{
	"images":    "Images",
	"videos":    "Videos",
	"audio":     "Audio",
	"documents": "Documents/Books",
	"office":    "Office Documents",
	"archives":  "Archives",
	"code":      "Code/Development",
	"system":    "System/Applications",
	Other:       "Other",
}

func builtinCategories() []category {
	cats := make([]category, 0, len(builtinTable))

	for _, entry := range builtinTable {
		exts := make(map[string]struct{}, len(entry.exts))
		for _, ext := range entry.exts {
			exts[ext] = struct{}{}
		}

		cats = append(cats, category{name: entry.name, exts: exts})
	}

	return cats
}

// DisplayName returns a human-readable name for category.
// Unknown categories are title-cased.
func DisplayName(category string) string {
	if name, ok := displayNames[category]; ok {
		return name
	}

	words := strings.FieldsFunc(category, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
