package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForEachChunk splits 0..length into at most limit contiguous chunks and
// runs body once per chunk. Cheaper than ForEach when body is tiny.
func ForEachChunk(length, limit int, body func(begin, end int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}
	if limit > length {
		limit = length
	}
	chunk := (length + limit - 1) / limit
	var wg sync.WaitGroup
	for begin := 0; begin < length; begin += chunk {
		end := begin + chunk
		if end > length {
			end = length
		}
		wg.Add(1)
		go func(begin, end int) {
			defer wg.Done()
			body(begin, end)
		}(begin, end)
	}
	wg.Wait()
}
