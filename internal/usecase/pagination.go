package usecase

import "math"

const (
	defaultLimit = 10
	maxLimit     = 100

	// OFFSETはDB側でint32に収まる範囲まで
	maxOffset = math.MaxInt32
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// 0はデフォルト扱い。範囲外はエラー
func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return 0, 0, ValidationError("invalid page")
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, ValidationError("invalid limit")
	}
	// (page-1)*limit を掛け算前に判定する
	if page-1 > maxOffset/limit {
		return 0, 0, ValidationError("invalid page")
	}
	return page, limit, nil
}
