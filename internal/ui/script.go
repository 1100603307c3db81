package ui

// Script is a canned Prompter that answers prompts from a fixed list and
// records everything shown. It drives the controller headlessly.
type Script struct {
	Answers []string
	Shown   []string
}

func (s *Script) pop() (string, bool) {
	if len(s.Answers) == 0 {
		return "", false
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, true
}

// Select matches the next answer against the option texts. An empty or
// missing answer cancels the selection.
func (s *Script) Select(_ string, options []string) (int, error) {
	a, ok := s.pop()
	if !ok || a == "" {
		return 0, ErrAborted
	}
	for i, o := range options {
		if o == a {
			return i, nil
		}
	}
	return 0, ErrAborted
}

func (s *Script) Input(string) (string, error) {
	a, ok := s.pop()
	if !ok {
		return "", ErrAborted
	}
	return a, nil
}

func (s *Script) Secret(label string) (string, error) {
	return s.Input(label)
}

func (s *Script) Confirm(string) (bool, error) {
	a, ok := s.pop()
	if !ok {
		return false, ErrAborted
	}
	return a == "y" || a == "yes", nil
}

func (s *Script) Show(text string) {
	s.Shown = append(s.Shown, text)
}

func (s *Script) Busy(_ string, fn func() error) error {
	return fn()
}
