package spool

import "strconv"

// Commands names the CUPS binaries used for each operation.
type Commands struct {
	// List enumerates installed destinations (lpstat -e).
	List string
	// Query reports the queue of one destination (lpq -P name).
	Query string
	// Submit queues a buffer or file with options (lp -d name).
	Submit string
	// SubmitRaw queues raw bytes from stdin (lpr -P name -o raw).
	SubmitRaw string
	// Cancel removes a job by identifier (lprm id).
	Cancel string
}

// DefaultCommands returns the stock CUPS client tools.
func DefaultCommands() Commands {
	return Commands{
		List:      "lpstat",
		Query:     "lpq",
		Submit:    "lp",
		SubmitRaw: "lpr",
		Cancel:    "lprm",
	}
}

func (c Commands) withDefaults() Commands {
	d := DefaultCommands()
	if c.List == "" {
		c.List = d.List
	}
	if c.Query == "" {
		c.Query = d.Query
	}
	if c.Submit == "" {
		c.Submit = d.Submit
	}
	if c.SubmitRaw == "" {
		c.SubmitRaw = d.SubmitRaw
	}
	if c.Cancel == "" {
		c.Cancel = d.Cancel
	}
	return c
}

// Binaries lists every distinct binary, for preflight checks.
func (c Commands) Binaries() []string {
	c = c.withDefaults()
	seen := make(map[string]struct{}, 5)
	var out []string
	for _, b := range []string{c.List, c.Query, c.Submit, c.SubmitRaw, c.Cancel} {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// SubmitOptions are the lp job options understood by PrintBuffer and
// PrintFile. Zero values are omitted so CUPS defaults apply.
type SubmitOptions struct {
	Copies     int    `json:"copies,omitempty" toml:"copies"`
	Priority   int    `json:"priority,omitempty" toml:"priority"`
	Title      string `json:"title,omitempty" toml:"title"`
	Hold       string `json:"hold,omitempty" toml:"hold"`
	PageRanges string `json:"pageRanges,omitempty" toml:"page_ranges"`
	Media      string `json:"media,omitempty" toml:"media"`
	Landscape  bool   `json:"landscape,omitempty" toml:"landscape"`
	FitToPage  bool   `json:"fitToPage,omitempty" toml:"fit_to_page"`
	Raw        bool   `json:"raw,omitempty" toml:"raw"`
}

// Args renders the options as lp flags in a stable order.
func (o SubmitOptions) Args() []string {
	var args []string
	if o.Copies > 0 {
		args = append(args, "-n", strconv.Itoa(o.Copies))
	}
	if o.Priority > 0 {
		args = append(args, "-q", strconv.Itoa(o.Priority))
	}
	if o.Title != "" {
		args = append(args, "-t", o.Title)
	}
	if o.Hold != "" {
		args = append(args, "-H", o.Hold)
	}
	if o.PageRanges != "" {
		args = append(args, "-P", o.PageRanges)
	}
	if o.Media != "" {
		args = append(args, "-o", "media="+o.Media)
	}
	if o.Landscape {
		args = append(args, "-o", "landscape")
	}
	if o.FitToPage {
		args = append(args, "-o", "fitplot")
	}
	if o.Raw {
		args = append(args, "-o", "raw")
	}
	return args
}
