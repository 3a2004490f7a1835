package earthfile

import "strings"

const (
	keywordFrom  = "from"
	scratchImage = "scratch"

	// FROM DOCKERFILE builds from a Dockerfile instead of pulling an image.
	fromDockerfile = "dockerfile"
	pullFlag       = "--pull"
)

// FROM flags that take their value as the following token when written
// without "=".
var fromValueFlags = map[string]bool{
	"--platform":  true,
	"--build-arg": true,
}

// Candidate is an image reference as written in the file. Line and Column
// locate the first byte of Image: Line is a physical line index and Column
// a byte offset within that line.
type Candidate struct {
	Image  string
	Range  LineRange
	Target string
	Line   int
	Column int
}

// word is a whitespace-separated token of an instruction.
type word struct {
	text   string
	line   int
	column int
}

// words splits the instruction the way strings.Fields splits Folded, but
// keeps the position of every token.
func (l LogicalLine) words() []word {
	var out []word
	for i, line := range strings.Split(l.Text, "\n") {
		if i > 0 && isComment(line) {
			continue
		}
		line = strings.TrimRight(line, "\r")
		if loc := continuationRe.FindStringIndex(line); loc != nil {
			line = line[:loc[0]]
		}
		for j := 0; j < len(line); {
			if isBlank(line[j]) {
				j++
				continue
			}
			k := j
			for k < len(line) && !isBlank(line[k]) {
				k++
			}
			out = append(out, word{text: line[j:k], line: l.Range.Start + i, column: j})
			j = k
		}
	}
	return out
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// Candidates returns the image references found on a logical line: every
// --pull of a WITH DOCKER directive and the image of a FROM instruction.
func Candidates(ll LogicalLine) []Candidate {
	words := ll.words()
	if len(words) == 0 {
		return nil
	}

	var images []word
	if isWithDocker(words) {
		images = append(images, pulledImages(words[2:])...)
	}
	if strings.EqualFold(words[0].text, keywordFrom) {
		if image, ok := fromImage(words[1:]); ok {
			images = append(images, image)
		}
	}

	var out []Candidate
	for _, image := range images {
		if image.text == scratchImage {
			continue
		}
		out = append(out, Candidate{
			Image:  image.text,
			Range:  ll.Range,
			Target: ll.Target,
			Line:   image.line,
			Column: image.column,
		})
	}
	return out
}

func isWithDocker(words []word) bool {
	return len(words) >= 2 &&
		strings.EqualFold(words[0].text, "with") &&
		strings.EqualFold(words[1].text, "docker")
}

// pulledImages collects the values of every --pull flag.
func pulledImages(words []word) []word {
	var images []word
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case strings.EqualFold(w.text, pullFlag):
			if i+1 < len(words) {
				i++
				if isImageToken(words[i].text) {
					images = append(images, words[i])
				}
			}
		case len(w.text) > len(pullFlag)+1 && strings.EqualFold(w.text[:len(pullFlag)+1], pullFlag+"="):
			n := len(pullFlag) + 1
			image := word{text: w.text[n:], line: w.line, column: w.column + n}
			if isImageToken(image.text) {
				images = append(images, image)
			}
		}
	}
	return images
}

// fromImage skips FROM flags and returns the image token.
func fromImage(words []word) (word, bool) {
	for i := 0; i < len(words); i++ {
		w := words[i]
		if strings.HasPrefix(w.text, "--") {
			if fromValueFlags[strings.ToLower(w.text)] {
				i++
			}
			continue
		}
		if strings.EqualFold(w.text, fromDockerfile) {
			return word{}, false
		}
		return w, isImageToken(w.text)
	}
	return word{}, false
}

// isImageToken reports whether token names an image. Any token holding a
// '+' is an Earthly target reference as a whole ("+build", "./dir+build",
// "github.com/org/repo+build"); none of its parts is an image.
func isImageToken(token string) bool {
	return !strings.ContainsRune(token, '+')
}
