package specification

// NewestFirst orders history rows by timestamp descending. Ids are
// time-ordered, so rows sharing a timestamp still list the latest first.
func NewestFirst() Specification {
	return All{
		OrderBy{Field: "timestamp", Desc: true},
		OrderBy{Field: "id", Desc: true},
	}
}
