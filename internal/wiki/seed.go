package wiki

var starters = map[string]string{
	"CSS": "# CSS\n\nCSS is a language that can be used to add style to an [HTML](/wiki/HTML) page.\n",
	"Git": "# Git\n\nGit is a version control tool that can be used to keep track of versions of a software project.\n\n## GitHub\n\nGitHub is an online service for hosting git repositories.\n",
	"HTML": "# HTML\n\nHTML is a markup language that can be used to define the structure of a web page. HTML elements include\n\n* headings\n* paragraphs\n* lists\n* links\n* and more!\n\nThe most recent major version of HTML is HTML5.\n",
	"Python": "# Python\n\nPython is a programming language that can be used both for writing **command-line scripts** or building **web applications**.\n",
}

// SeedIfEmpty writes the starter entries into an empty store.
func SeedIfEmpty(s *Store) (bool, error) {
	titles, err := s.List()
	if err != nil || len(titles) > 0 {
		return false, err
	}
	for title, body := range starters {
		if err := s.Save(title, body); err != nil {
			return false, err
		}
	}
	return true, nil
}
