package policy

// Listing describes how one content type is searched, ordered and paged.
type Listing struct {
	Table        string
	SearchFields []string
	OrderColumn  string
	PageSize     int
}

var (
	Activities = Listing{
		Table:        "activities",
		SearchFields: []string{"title", "description", "location"},
		OrderColumn:  "activity_date",
		PageSize:     12,
	}

	MeetingMinutes = Listing{
		Table:        "meeting_minutes",
		SearchFields: []string{"title", "content", "location"},
		OrderColumn:  "meeting_date",
		PageSize:     10,
	}

	Documents = Listing{
		Table:        "document_archives",
		SearchFields: []string{"title", "description", "filename"},
		OrderColumn:  "created_at",
		PageSize:     12,
	}
)
