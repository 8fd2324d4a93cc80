package phrases

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"stdphrase/internal/domain"
)

// TextSource reads one phrase per line. Blank lines and lines starting with
// '#' are ignored.
type TextSource struct {
	path string
}

func NewTextSource(path string) *TextSource {
	return &TextSource{path: path}
}

func (s *TextSource) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open phrase file: %w", err)
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read phrase file: %w", err)
	}
	if len(phrases) == 0 {
		return nil, fmt.Errorf("%s: %w", s.path, domain.ErrNoPhrases)
	}
	return phrases, nil
}
