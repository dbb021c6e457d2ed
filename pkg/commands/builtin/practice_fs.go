package builtin

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

const practiceHome = "/home/user"

// PracticeFS is the in-memory directory tree behind practice mode.
// Nothing touches the real filesystem.
type PracticeFS struct {
	mu  sync.Mutex
	cwd string
	// directory -> entries; sub-directories end with "/"
	tree map[string][]string
}

// NewPracticeFS creates the default tree with the cwd at the home directory
func NewPracticeFS() *PracticeFS {
	return &PracticeFS{
		cwd: practiceHome,
		tree: map[string][]string{
			"/":                           {"etc/", "home/", "var/"},
			"/etc":                        {"hosts", "resolv.conf"},
			"/home":                       {"user/"},
			"/home/user":                  {"documents/", "projects/", "notes.txt"},
			"/home/user/documents":        {"report.txt", "scan-results.txt"},
			"/home/user/projects":         {"toolkit/"},
			"/home/user/projects/toolkit": {"README.md", "main.go"},
			"/var":                        {"log/"},
			"/var/log":                    {"syslog"},
		},
	}
}

// Pwd returns the current directory
func (fs *PracticeFS) Pwd() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cwd
}

// List returns the entries of dir (the cwd when empty), sorted
func (fs *PracticeFS) List(dir string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target := fs.resolve(dir)
	entries, ok := fs.tree[target]
	if !ok {
		return nil, fmt.Errorf("ls: cannot access '%s': No such directory", dir)
	}
	out := append([]string(nil), entries...)
	sort.Strings(out)
	return out, nil
}

// Cd changes directory. Supports absolute paths, "..", "~" and relative names.
func (fs *PracticeFS) Cd(dir string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target := fs.resolve(dir)
	if _, ok := fs.tree[target]; !ok {
		return fmt.Errorf("cd: no such directory: %s", dir)
	}
	fs.cwd = target
	return nil
}

func (fs *PracticeFS) resolve(dir string) string {
	switch {
	case dir == "":
		return fs.cwd
	case dir == "~":
		return practiceHome
	case strings.HasPrefix(dir, "~/"):
		return path.Clean(practiceHome + dir[1:])
	case strings.HasPrefix(dir, "/"):
		return path.Clean(dir)
	}
	return path.Join(fs.cwd, dir)
}
