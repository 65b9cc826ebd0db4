package diff

func parseLine(raw string, h *Hunk) (Line, error) {

	marker := byte(' ')
	content := ""

	if len(raw) > 0 {
		marker = raw[0]
		content = raw[1:]
	}

	switch marker {

	case '+':
		if h.newNext < 1 {
			return Line{}, &MalformedError{Line: raw, Reason: "new-side numbering below 1"}
		}
		l := Line{
			Type:      Added,
			Content:   content,
			NewNumber: h.newNext,
		}
		h.newNext++
		return l, nil

	case '-':
		if h.oldNext < 1 {
			return Line{}, &MalformedError{Line: raw, Reason: "old-side numbering below 1"}
		}
		l := Line{
			Type:      Removed,
			Content:   content,
			OldNumber: h.oldNext,
		}
		h.oldNext++
		return l, nil

	default:
		if h.oldNext < 1 || h.newNext < 1 {
			return Line{}, &MalformedError{Line: raw, Reason: "context numbering below 1"}
		}
		l := Line{
			Type:      Context,
			Content:   content,
			OldNumber: h.oldNext,
			NewNumber: h.newNext,
		}
		h.oldNext++
		h.newNext++
		return l, nil
	}
}
