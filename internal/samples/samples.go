// Package samples holds the static catalog of example announcements used by
// the demo page. Selecting a sample populates the request fields with these
// literal strings, unmodified.
package samples

// Announcement is a pre-loaded example with its title and body text.
type Announcement struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var catalog = []Announcement{
	{
		Title: "KKR Acquisition - Large PE Deal",
		Text: `KKR & Co. Inc. announces the acquisition of 80% stake in ABC Technology Ltd
for a total consideration of USD 200 million. The transaction represents a strategic
investment in the Southeast Asian technology sector. Goldman Sachs is acting as
financial adviser to KKR. The acquisition is expected to complete in Q1 2026.`,
	},
	{
		Title: "Company XYZ - Quarterly Results (Should Reject)",
		Text: `Company XYZ Limited announces its unaudited financial results for Q3 2025.
Revenue increased 15% year-over-year to $50 million. Net profit was $8 million,
up from $6 million in the prior year quarter. The Board is pleased with the results.`,
	},
	{
		Title: "Property Sale Announcement (Should Reject)",
		Text: `ABC Corporation announces the disposal of its commercial property located at
123 Main Street for a consideration of $12 million. The property sale is part of
the company's asset optimization strategy.`,
	},
	{
		Title: "Strategic Investment - Mid-Size Deal",
		Text: `DEF Ltd announces a proposed strategic investment to acquire 65% of the issued
share capital of XYZ Pte Ltd for SGD 85 million in cash. The acquisition will expand
DEF's presence in the Asian market. HSBC is advising on the transaction.`,
	},
	{
		Title: "Small Deal - Below Threshold (Should Reject)",
		Text: `Startup Inc. announces the acquisition of Tech Co. for a total consideration
of USD 3 million. The acquisition will strengthen Startup's product capabilities.`,
	},
}

// All returns the full catalog in display order.
func All() []Announcement {
	return catalog
}

// Get returns the announcement at index i, or false when out of range.
func Get(i int) (Announcement, bool) {
	if i < 0 || i >= len(catalog) {
		return Announcement{}, false
	}
	return catalog[i], true
}
