package model

// AdminSet is the static admin allow-list, loaded once at startup and never
// mutated afterwards, so it is safe to share across goroutines without locks.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return AdminSet{ids: m}
}

func (s AdminSet) IsAdmin(chatID int64) bool {
	_, ok := s.ids[chatID]
	return ok
}

func (s AdminSet) ChatIDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

func (s AdminSet) Len() int { return len(s.ids) }
