package schema

type NotificationAction struct {
	Type      string `json:"type"`
	Category  string `json:"category,omitempty"`
	Page      string `json:"page,omitempty"`
	ProductID int    `json:"productId,omitempty"`
}

type Notification struct {
	ID      int64               `json:"id"`
	Type    string              `json:"type"`
	Icon    string              `json:"icon"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Time    string              `json:"time"`
	Read    bool                `json:"read"`
	Action  *NotificationAction `json:"action,omitempty"`
}
