package match

import "stay_finder/internal/domain"

// SelectFirst picks the head of a single criterion's match list.
func SelectFirst(matches []string) (string, error) {
	if len(matches) == 0 {
		return "", domain.ErrNoMatch
	}
	return matches[0], nil
}

// SelectBest concatenates lists (duplicates kept) and returns the name with the
// highest occurrence count. On a tie the name seen first in the concatenation
// wins. A venue present in one list only can still win on raw count.
func SelectBest(lists ...[]string) (string, error) {
	counts := map[string]int{}
	var order []string
	for _, l := range lists {
		for _, name := range l {
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	if len(order) == 0 {
		return "", domain.ErrNoMatch
	}
	best := order[0]
	for _, name := range order[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best, nil
}
