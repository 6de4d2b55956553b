package source

// Scanner is an immutable view over a source string with a mutable cursor.
// All positions are character (rune) offsets.
type Scanner struct {
	desc *Descriptor
	src  []rune
	pos  int
}

// NewScanner creates a scanner over src, attributed to desc.
func NewScanner(desc *Descriptor, src string) *Scanner {
	return &Scanner{desc: desc, src: []rune(src)}
}

// Descriptor returns the descriptor this scanner reads from.
func (s *Scanner) Descriptor() *Descriptor {
	return s.desc
}

// Source returns the full source text.
func (s *Scanner) Source() string {
	return string(s.src)
}

// Position returns the current cursor offset.
func (s *Scanner) Position() int {
	return s.pos
}

// IsEOF returns true if the cursor is at the end of the source.
func (s *Scanner) IsEOF() bool {
	return s.pos >= len(s.src)
}

// Peek returns true iff lit is a prefix of the remaining input. It does not
// advance the cursor.
func (s *Scanner) Peek(lit string) bool {
	i := s.pos
	for _, r := range lit {
		if i >= len(s.src) || s.src[i] != r {
			return false
		}
		i++
	}
	return true
}

// Accept behaves like Peek but advances the cursor past lit on a match.
func (s *Scanner) Accept(lit string) bool {
	if !s.Peek(lit) {
		return false
	}
	s.pos += len([]rune(lit))
	return true
}

// AcceptChar advances one character and returns it. Returns the empty string
// at EOF.
func (s *Scanner) AcceptChar() string {
	if s.IsEOF() {
		return ""
	}
	r := s.src[s.pos]
	s.pos++
	return string(r)
}

// PeekChar returns the next character without advancing, or the empty string
// at EOF.
func (s *Scanner) PeekChar() string {
	if s.IsEOF() {
		return ""
	}
	return string(s.src[s.pos])
}

// AcceptWhitespaceChar advances past one non-newline whitespace character and
// returns it, or returns the empty string with ok=false.
func (s *Scanner) AcceptWhitespaceChar() (string, bool) {
	if s.IsEOF() {
		return "", false
	}
	switch s.src[s.pos] {
	case ' ', '\t', '\r', '\v', '\f':
		r := s.src[s.pos]
		s.pos++
		return string(r), true
	}
	return "", false
}

// AcceptUntil accepts characters until lit is peeked, returning the accepted
// text. Returns ok=false (with everything accepted so far) if EOF is reached
// before lit occurs; the cursor is then at EOF.
func (s *Scanner) AcceptUntil(lit string) (string, bool) {
	start := s.pos
	for !s.IsEOF() {
		if s.Peek(lit) {
			return string(s.src[start:s.pos]), true
		}
		s.pos++
	}
	return string(s.src[start:s.pos]), false
}

// SetPosition moves the cursor to a previously observed offset. Used for
// bounded lookahead; pos must come from Position.
func (s *Scanner) SetPosition(pos int) {
	if pos < 0 || pos > len(s.src) {
		panic("source: position out of range")
	}
	s.pos = pos
}

// RangeFrom creates a range from start to the current cursor.
func (s *Scanner) RangeFrom(start int) *Range {
	return NewRange(s.desc, start, s.pos)
}
