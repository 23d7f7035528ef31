package client

import "errors"

// History is the list of requests made by a client, with a cursor for Back and Forward.
type History struct {
	entries  []RequestParams
	position int
}

// Add appends a request after the current position, discarding any forward entries.
func (h *History) Add(p RequestParams) {
	if len(h.entries) > 0 {
		h.entries = h.entries[:h.position+1]
	}
	h.entries = append(h.entries, p)
	h.position = len(h.entries) - 1
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Current returns the entry at the cursor.
func (h *History) Current() (RequestParams, error) {
	if len(h.entries) == 0 {
		return RequestParams{}, errors.New("the history is empty")
	}
	return h.entries[h.position], nil
}

// Back moves the cursor back one entry.
func (h *History) Back() (RequestParams, error) {
	if h.position < 1 {
		return RequestParams{}, errors.New("you are already on the first page")
	}
	h.position--
	return h.entries[h.position], nil
}

// Forward moves the cursor forward one entry.
func (h *History) Forward() (RequestParams, error) {
	if h.position >= len(h.entries)-1 {
		return RequestParams{}, errors.New("you are already on the last page")
	}
	h.position++
	return h.entries[h.position], nil
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = nil
	h.position = 0
}

func (h *History) clone() History {
	return History{entries: append([]RequestParams(nil), h.entries...), position: h.position}
}
