package service

// PageMeta 偏移量分页的页信息
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_previous_page"`
}

// normalizePage 页码与页大小兜底
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 { page = 1 }
	if pageSize < 1 { pageSize = 10 }
	if pageSize > 100 { pageSize = 100 }
	return page, pageSize, (page - 1) * pageSize
}

func newPageMeta(total int64, page, pageSize int) PageMeta {
	return PageMeta{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		HasNextPage: int64(page*pageSize) < total,
		HasPrevPage: page > 1,
	}
}
