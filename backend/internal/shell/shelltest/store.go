package shelltest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// `Store` simulates the remote side of `ecfs` and `ectrans` on top of local
// files.  ECFS paths start with `ec:`; `ectrans` targets are stored by their
// `-target` or `-source` value.  Use `Store.Handle` as `Fake.Handler`.
type Store struct {
	mu    sync.Mutex
	files map[string][]byte
	// `Fail` maps a command, like `ecp` or `ectrans`, to an exit status.
	Fail map[string]int
}

func NewStore() *Store {
	return &Store{
		files: make(map[string][]byte),
		Fail:  make(map[string]int),
	}
}

func (s *Store) Put(path string, data []byte) {
	s.mu.Lock()
	s.files[path] = append([]byte(nil), data...)
	s.mu.Unlock()
}

func (s *Store) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dat, ok := s.files[path]
	return dat, ok
}

func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := make([]string, 0, len(s.files))
	for p := range s.files {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}

func isECFS(path string) bool {
	return strings.HasPrefix(path, "ec:")
}

// `positionals()` assumes that options are flags, which holds for the ECFS
// commands.
func positionals(argv []string) []string {
	var pos []string
	for _, a := range argv[1:] {
		if !strings.HasPrefix(a, "-") {
			pos = append(pos, a)
		}
	}
	return pos
}

func (s *Store) upload(local, remote string) int {
	dat, err := os.ReadFile(local)
	if err != nil {
		return 1
	}
	s.Put(remote, dat)
	return 0
}

func (s *Store) download(remote, local string) int {
	dat, ok := s.Get(remote)
	if !ok {
		return 1
	}
	if err := os.WriteFile(local, dat, 0644); err != nil {
		return 1
	}
	return 0
}

func (s *Store) Handle(argv []string) (int, string) {
	cmd := filepath.Base(argv[0])
	s.mu.Lock()
	status, fail := s.Fail[cmd]
	s.mu.Unlock()
	if fail {
		return status, ""
	}

	if cmd == "ectrans" {
		return s.handleEctrans(argv), ""
	}

	pos := positionals(argv)
	switch cmd {
	case "etest":
		if _, ok := s.Get(pos[0]); ok {
			return 0, ""
		}
		return 1, ""
	case "els":
		var lines []string
		for _, p := range s.Paths() {
			if strings.HasPrefix(p, pos[0]) {
				lines = append(lines, strings.TrimPrefix(p, pos[0]))
			}
		}
		if len(lines) == 0 {
			return 0, ""
		}
		return 0, strings.Join(lines, "\n") + "\n"
	case "emkdir", "echmod":
		return 0, ""
	case "erm":
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.files[pos[0]]; !ok {
			return 1, ""
		}
		delete(s.files, pos[0])
		return 0, ""
	case "ecp":
		src, dst := pos[0], pos[1]
		switch {
		case isECFS(src) && !isECFS(dst):
			return s.download(src, dst), ""
		case !isECFS(src) && isECFS(dst):
			return s.upload(src, dst), ""
		}
		return 1, ""
	}
	return 127, ""
}

func (s *Store) handleEctrans(argv []string) int {
	src, ok := ValueOf(argv, "source")
	if !ok {
		return 2
	}
	dst, ok := ValueOf(argv, "target")
	if !ok {
		return 2
	}
	if HasFlag(argv, "get") {
		return s.download(src, dst)
	}
	return s.upload(src, dst)
}
