package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200

	// MaxPage keeps (page-1)*size within int for any accepted size.
	MaxPage = math.MaxInt / MaxPageSize
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	offset = (page - 1) * size
	limit = size
	return offset, limit
}

func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
