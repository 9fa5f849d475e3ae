package integration

import "strings"

// DefaultErrorSummaryLimit is how many messages end up in the job record
const DefaultErrorSummaryLimit = 5

// ErrorCollector accumulates per-record failure messages in order.
// Every message is kept; only the summary is truncated.
type ErrorCollector struct {
	messages     []string
	summaryLimit int
}

// NewErrorCollector creates an ErrorCollector whose Summary joins at most
// summaryLimit messages
func NewErrorCollector(summaryLimit int) *ErrorCollector {
	if summaryLimit <= 0 {
		summaryLimit = DefaultErrorSummaryLimit
	}
	return &ErrorCollector{
		messages:     make([]string, 0),
		summaryLimit: summaryLimit,
	}
}

// Add records a failure message
func (ec *ErrorCollector) Add(message string) {
	ec.messages = append(ec.messages, message)
}

// Count returns the total number of recorded failures
func (ec *ErrorCollector) Count() int {
	return len(ec.messages)
}

// HasErrors returns true if any failure was recorded
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.messages) > 0
}

// Messages returns a copy of all messages in insertion order
func (ec *ErrorCollector) Messages() []string {
	out := make([]string, len(ec.messages))
	copy(out, ec.messages)
	return out
}

// Summary joins the first summaryLimit messages with "; "
func (ec *ErrorCollector) Summary() string {
	n := len(ec.messages)
	if n > ec.summaryLimit {
		n = ec.summaryLimit
	}
	return strings.Join(ec.messages[:n], "; ")
}

// IsTruncated returns true if Summary omits messages
func (ec *ErrorCollector) IsTruncated() bool {
	return len(ec.messages) > ec.summaryLimit
}
