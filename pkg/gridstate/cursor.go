package gridstate

// Pagination is the page-index/page-size control the grid exposes.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// CursorBridge adapts page-index/page-size pagination to an opaque
// forward-cursor backend. A history stack of previously seen cursors makes
// "previous page" work without server-side offsets. The stack is seeded
// with nil: the first page has no cursor.
type CursorBridge struct {
	pagination Pagination
	history    []*string
	next       *string
	lastSig    string
	sigSeen    bool
}

func NewCursorBridge(pageSize int) *CursorBridge {
	return &CursorBridge{
		pagination: Pagination{PageIndex: 0, PageSize: pageSize},
		history:    []*string{nil},
	}
}

func (b *CursorBridge) Pagination() Pagination {
	return b.pagination
}

// Current returns the cursor for the page the grid is on: the top of the
// history stack.
func (b *CursorBridge) Current() *string {
	return b.history[len(b.history)-1]
}

// SetNextCursor records the cursor the server reported for the following
// page. It is a plain cell update, not a state transition: responses arrive
// on every fetch and must not disturb the stack.
func (b *CursorBridge) SetNextCursor(next *string) {
	b.next = next
}

func (b *CursorBridge) HasNext() bool {
	return b.next != nil
}

// Apply reconciles a requested pagination change against the cursor stack.
// It returns the cursor to query with and whether a fetch is needed.
func (b *CursorBridge) Apply(p Pagination) (*string, bool) {
	switch {
	case p.PageSize != b.pagination.PageSize:
		// A size change invalidates every remembered cursor.
		b.history = []*string{nil}
		b.next = nil
		b.pagination = Pagination{PageIndex: 0, PageSize: p.PageSize}
		return nil, true
	case p.PageIndex > b.pagination.PageIndex:
		if b.next == nil {
			// Server reported no further page.
			return b.Current(), false
		}
		b.history = append(b.history, b.next)
		b.next = nil
		b.pagination.PageIndex = p.PageIndex
		return b.Current(), true
	case p.PageIndex < b.pagination.PageIndex:
		// Pop until stack depth matches the requested page, so a jump of
		// several pages back lands on that page's cursor.
		target := p.PageIndex
		if target < 0 {
			target = 0
		}
		for len(b.history) > 1 && len(b.history)-1 > target {
			b.history = b.history[:len(b.history)-1]
		}
		b.next = nil
		b.pagination.PageIndex = target
		return b.Current(), true
	default:
		return b.Current(), false
	}
}

// ObserveSignature watches the derived query signature (server filters,
// search terms, pagination unit, sort). Any change after the first
// observation unconditionally resets the stack, so a filter change never
// leaves the view on an orphaned cursor.
func (b *CursorBridge) ObserveSignature(sig string) {
	if b.sigSeen && sig == b.lastSig {
		return
	}
	if b.sigSeen {
		b.Reset()
	}
	b.sigSeen = true
	b.lastSig = sig
}

// Reset drops the cursor history and returns to the first page, keeping the
// page size.
func (b *CursorBridge) Reset() {
	b.history = []*string{nil}
	b.next = nil
	b.pagination.PageIndex = 0
}
