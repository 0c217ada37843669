package cmd

// paginate applies pagination to a result set and returns the page slice,
// total count, and the effective page number.
func paginate[T any](results []T, page, limit int) ([]T, int, int) {
	total := len(results)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return results, total, page
	}

	start := (page - 1) * limit
	end := start + limit

	if start >= total {
		return []T{}, total, page
	}
	if end > total {
		end = total
	}

	return results[start:end], total, page
}

// pageCount returns the number of pages for total items at limit per page.
func pageCount(total, limit int) int {
	if limit <= 0 || total == 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
