package audit

import "time"

// TimelineFilters holds the system log filters.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	Actor    string
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// TimelineRow is one line of the system log.
type TimelineRow struct {
	At          time.Time `json:"at"`
	ActorID     string    `json:"actorId"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	ActionLabel string    `json:"actionLabel"`
	Entity      string    `json:"entity"`
	EntityID    string    `json:"entityId"`
}

// PagingInfo holds simple previous/next pagination.
type PagingInfo struct {
	Page     int  `json:"page"`
	HasNext  bool `json:"hasNext"`
	PageSize int  `json:"pageSize"`
	PrevPage int  `json:"prevPage,omitempty"`
	NextPage int  `json:"nextPage,omitempty"`
}

var actionLabels = map[string]string{
	"create":  "Thêm mới",
	"update":  "Cập nhật",
	"delete":  "Xóa",
	"restore": "Khôi phục",
	"approve": "Duyệt",
	"cancel":  "Hủy",
	"prune":   "Dọn nhật ký",
}

// ActionLabel is the display name of action.
func ActionLabel(action string) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return action
}
