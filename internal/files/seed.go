package files

// DefaultItems is the desktop's stock file system.
func DefaultItems() []FileItem {
	return []FileItem{
		{ID: "root", Name: "C:", Type: TypeFolder},
		{ID: "docs", Name: "Documents", Type: TypeFolder, ParentID: "root", DateModified: "2023-10-25"},
		{ID: "pics", Name: "Pictures", Type: TypeFolder, ParentID: "root", DateModified: "2023-10-26"},
		{
			ID:           "notes",
			Name:         "Project_Notes.txt",
			Type:         TypeFile,
			ParentID:     "docs",
			Size:         "2 KB",
			DateModified: "2023-10-27",
			Content:      "1. Integration with Python backend.\n2. Optimize AI agent latency.\n3. Deploy to private server.",
		},
		{
			ID:           "resume",
			Name:         "Resume.txt",
			Type:         TypeFile,
			ParentID:     "docs",
			Size:         "15 KB",
			DateModified: "2023-09-15",
			Content:      "Senior React Engineer with 10 years of experience...",
		},
		{
			ID:           "budget",
			Name:         "Budget_2024.txt",
			Type:         TypeFile,
			ParentID:     "root",
			Size:         "1 KB",
			DateModified: "2023-10-28",
			Content:      "Q1: $5000\nQ2: $7000\nQ3: $6000",
		},
	}
}
