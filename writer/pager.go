package writer

import "github.com/ftxrc/gpymusic/models"

// Numbered is one pickable entry: the entity plus the 1-based index the
// user types to select it.
type Numbered struct {
	Index int
	Item  models.MusicObject
}

// Flatten orders a collection for display and numbering: songs first, then
// artists, then albums.
func Flatten(c models.Collection) []models.MusicObject {
	items := make([]models.MusicObject, 0, len(c.Songs)+len(c.Artists)+len(c.Albums))
	for _, song := range c.Songs {
		items = append(items, song)
	}
	for _, artist := range c.Artists {
		items = append(items, artist)
	}
	for _, album := range c.Albums {
		items = append(items, album)
	}
	return items
}

// Pager steps through a flat item list one terminal page at a time.
// Indices stay absolute across pages so a pick on page three means the same
// entity it meant on page one.
type Pager struct {
	items    []models.MusicObject
	pageSize int
	page     int
}

// NewPager builds a pager over items. A pageSize below one falls back to
// showing everything on a single page.
func NewPager(items []models.MusicObject, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = len(items)
		if pageSize < 1 {
			pageSize = 1
		}
	}
	return &Pager{items: items, pageSize: pageSize}
}

// Len reports the total number of items across all pages.
func (p *Pager) Len() int { return len(p.items) }

// Current returns the entries on the current page with absolute indices.
func (p *Pager) Current() []Numbered {
	start := p.page * p.pageSize
	if start >= len(p.items) {
		return nil
	}
	end := start + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}

	entries := make([]Numbered, 0, end-start)
	for i := start; i < end; i++ {
		entries = append(entries, Numbered{Index: i + 1, Item: p.items[i]})
	}
	return entries
}

// Item resolves an absolute 1-based index to its entity.
func (p *Pager) Item(index int) (models.MusicObject, bool) {
	if index < 1 || index > len(p.items) {
		return nil, false
	}
	return p.items[index-1], true
}

// Next advances one page. It reports false when already on the last page.
func (p *Pager) Next() bool {
	if (p.page+1)*p.pageSize >= len(p.items) {
		return false
	}
	p.page++
	return true
}

// Back steps one page back. It reports false when already on the first page.
func (p *Pager) Back() bool {
	if p.page == 0 {
		return false
	}
	p.page--
	return true
}

// Position reports the current page and the page count, both 1-based.
func (p *Pager) Position() (current, total int) {
	total = (len(p.items) + p.pageSize - 1) / p.pageSize
	if total < 1 {
		total = 1
	}
	return p.page + 1, total
}
