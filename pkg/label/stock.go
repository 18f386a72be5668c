package label

// Stock describes one label product that the printer accepts.
// Dimensions are (width, length) across and along the feed direction; the
// length of endless tape is zero.
type Stock struct {
	ID            string
	Name          string
	Kind          Kind
	TapeSize      [2]int // millimetres
	DotsTotal     [2]int
	DotsPrintable [2]int
	RightMargin   int // dots
	FeedMargin    int // dots
	TwoColor      bool
}

// Catalog is an ordered, read-only set of stock definitions.
type Catalog struct {
	stocks []Stock
	byID   map[string]int
}

// NewCatalog builds a catalog. Later entries with a duplicate ID replace
// earlier ones in place.
func NewCatalog(stocks ...Stock) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(stocks))}
	for _, s := range stocks {
		if i, ok := c.byID[s.ID]; ok {
			c.stocks[i] = s
			continue
		}
		c.byID[s.ID] = len(c.stocks)
		c.stocks = append(c.stocks, s)
	}
	return c
}

// Lookup returns the stock with the given identifier.
func (c *Catalog) Lookup(id string) (Stock, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Stock{}, false
	}
	return c.stocks[i], true
}

// IDs returns all identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.stocks))
	for i, s := range c.stocks {
		ids[i] = s.ID
	}
	return ids
}

// All returns a copy of every stock in catalog order.
func (c *Catalog) All() []Stock {
	out := make([]Stock, len(c.stocks))
	copy(out, c.stocks)
	return out
}

// Len returns the number of stocks.
func (c *Catalog) Len() int {
	return len(c.stocks)
}

// BrotherQL is the catalog of Brother QL label stock.
var BrotherQL = NewCatalog(
	Stock{ID: "12", Name: "12mm endless", Kind: Endless, TapeSize: [2]int{12, 0}, DotsTotal: [2]int{142, 0}, DotsPrintable: [2]int{106, 0}, RightMargin: 29, FeedMargin: 35},
	Stock{ID: "29", Name: "29mm endless", Kind: Endless, TapeSize: [2]int{29, 0}, DotsTotal: [2]int{342, 0}, DotsPrintable: [2]int{306, 0}, RightMargin: 6, FeedMargin: 35},
	Stock{ID: "38", Name: "38mm endless", Kind: Endless, TapeSize: [2]int{38, 0}, DotsTotal: [2]int{449, 0}, DotsPrintable: [2]int{413, 0}, RightMargin: 12, FeedMargin: 35},
	Stock{ID: "50", Name: "50mm endless", Kind: Endless, TapeSize: [2]int{50, 0}, DotsTotal: [2]int{590, 0}, DotsPrintable: [2]int{554, 0}, RightMargin: 12, FeedMargin: 35},
	Stock{ID: "54", Name: "54mm endless", Kind: Endless, TapeSize: [2]int{54, 0}, DotsTotal: [2]int{636, 0}, DotsPrintable: [2]int{590, 0}, RightMargin: 0, FeedMargin: 35},
	Stock{ID: "62", Name: "62mm endless", Kind: Endless, TapeSize: [2]int{62, 0}, DotsTotal: [2]int{732, 0}, DotsPrintable: [2]int{696, 0}, RightMargin: 12, FeedMargin: 35},
	Stock{ID: "62red", Name: "62mm endless (black/red/white)", Kind: Endless, TapeSize: [2]int{62, 0}, DotsTotal: [2]int{732, 0}, DotsPrintable: [2]int{696, 0}, RightMargin: 12, FeedMargin: 35, TwoColor: true},
	Stock{ID: "102", Name: "102mm endless", Kind: Endless, TapeSize: [2]int{102, 0}, DotsTotal: [2]int{1244, 0}, DotsPrintable: [2]int{1164, 0}, RightMargin: 12, FeedMargin: 35},
	Stock{ID: "17x54", Name: "17mm x 54mm die-cut", Kind: DieCut, TapeSize: [2]int{17, 54}, DotsTotal: [2]int{201, 636}, DotsPrintable: [2]int{165, 566}, RightMargin: 0},
	Stock{ID: "17x87", Name: "17mm x 87mm die-cut", Kind: DieCut, TapeSize: [2]int{17, 87}, DotsTotal: [2]int{201, 1026}, DotsPrintable: [2]int{165, 956}, RightMargin: 0},
	Stock{ID: "23x23", Name: "23mm x 23mm die-cut", Kind: DieCut, TapeSize: [2]int{23, 23}, DotsTotal: [2]int{272, 272}, DotsPrintable: [2]int{202, 202}, RightMargin: 42},
	Stock{ID: "29x42", Name: "29mm x 42mm die-cut", Kind: DieCut, TapeSize: [2]int{29, 42}, DotsTotal: [2]int{342, 495}, DotsPrintable: [2]int{306, 425}, RightMargin: 6},
	Stock{ID: "29x90", Name: "29mm x 90mm die-cut", Kind: DieCut, TapeSize: [2]int{29, 90}, DotsTotal: [2]int{342, 1061}, DotsPrintable: [2]int{306, 991}, RightMargin: 6},
	Stock{ID: "39x90", Name: "38mm x 90mm die-cut", Kind: DieCut, TapeSize: [2]int{38, 90}, DotsTotal: [2]int{449, 1061}, DotsPrintable: [2]int{413, 991}, RightMargin: 12},
	Stock{ID: "39x48", Name: "39mm x 48mm die-cut", Kind: DieCut, TapeSize: [2]int{39, 48}, DotsTotal: [2]int{461, 565}, DotsPrintable: [2]int{425, 495}, RightMargin: 6},
	Stock{ID: "52x29", Name: "52mm x 29mm die-cut", Kind: DieCut, TapeSize: [2]int{52, 29}, DotsTotal: [2]int{614, 341}, DotsPrintable: [2]int{578, 271}, RightMargin: 0},
	Stock{ID: "62x29", Name: "62mm x 29mm die-cut", Kind: DieCut, TapeSize: [2]int{62, 29}, DotsTotal: [2]int{732, 341}, DotsPrintable: [2]int{696, 271}, RightMargin: 12},
	Stock{ID: "62x100", Name: "62mm x 100mm die-cut", Kind: DieCut, TapeSize: [2]int{62, 100}, DotsTotal: [2]int{732, 1179}, DotsPrintable: [2]int{696, 1109}, RightMargin: 12},
	Stock{ID: "102x51", Name: "102mm x 51mm die-cut", Kind: DieCut, TapeSize: [2]int{102, 51}, DotsTotal: [2]int{1200, 596}, DotsPrintable: [2]int{1164, 526}, RightMargin: 12},
	Stock{ID: "102x152", Name: "102mm x 153mm die-cut", Kind: DieCut, TapeSize: [2]int{102, 153}, DotsTotal: [2]int{1200, 1804}, DotsPrintable: [2]int{1164, 1660}, RightMargin: 12},
	Stock{ID: "d12", Name: "12mm round die-cut", Kind: RoundDieCut, TapeSize: [2]int{12, 12}, DotsTotal: [2]int{142, 142}, DotsPrintable: [2]int{94, 94}, RightMargin: 113, FeedMargin: 35},
	Stock{ID: "d24", Name: "24mm round die-cut", Kind: RoundDieCut, TapeSize: [2]int{24, 24}, DotsTotal: [2]int{284, 284}, DotsPrintable: [2]int{236, 236}, RightMargin: 42},
	Stock{ID: "d58", Name: "58mm round die-cut", Kind: RoundDieCut, TapeSize: [2]int{58, 58}, DotsTotal: [2]int{688, 688}, DotsPrintable: [2]int{618, 618}, RightMargin: 51},
)
