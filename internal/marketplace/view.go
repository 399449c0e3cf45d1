package marketplace

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Listing types
const (
	TypeAuction = "auction"
	TypeSale    = "sale"
)

// Display modes
const (
	DisplayGrid = "grid"
	DisplayList = "list"
)

const gridColumns = 4

// View selects what the buyer sees
type View struct {
	Type    string // auction or sale
	Search  string // credit type substring, case-insensitive
	Display string // grid or list
}

// Apply returns one partition filtered by the search text
func (v View) Apply(l Listings) []Listing {
	items := l.Sale
	if v.Type == TypeAuction {
		items = l.Auction
	}
	needle := strings.ToLower(strings.TrimSpace(v.Search))
	out := make([]Listing, 0, len(items))
	for _, it := range items {
		if needle == "" || strings.Contains(strings.ToLower(it.TypeofCredit), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Render writes items as a grid of cards or as a table
func Render(w io.Writer, items []Listing, display string) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No NFTs found.")
		return err
	}
	if display == DisplayList {
		return renderList(w, items)
	}
	return renderGrid(w, items)
}

func renderList(w io.Writer, items []Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOKEN\tCREDIT\tQUANTITY\tPRICE\tEXPIRY\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.TokenID, it.TypeofCredit, it.Quantity, it.Price, expiry(it), it.Description)
	}
	return tw.Flush()
}

func renderGrid(w io.Writer, items []Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for start := 0; start < len(items); start += gridColumns {
		end := min(start+gridColumns, len(items))
		row := items[start:end]
		lines := [][]string{}
		for _, it := range row {
			lines = append(lines, []string{
				"#" + it.TokenID + " " + it.TypeofCredit,
				"qty " + it.Quantity + " @ " + it.Price,
				"expires " + expiry(it),
				it.Image,
			})
		}
		for i := 0; i < 4; i++ {
			cells := make([]string, len(lines))
			for j, card := range lines {
				cells[j] = card[i]
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func expiry(it Listing) string {
	if it.ExpiryDate == nil {
		return "never"
	}
	return it.ExpiryDate.Format("2006-01-02")
}
