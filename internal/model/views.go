package model

import "time"

// View types are the denormalized shapes served over the API. They carry
// public ids only.

type BoardView struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Columns     []ColumnView `json:"columns"`
}

type ColumnView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Position    int        `json:"position"`
	Items       []ItemView `json:"items"`
}

type ItemView struct {
	ID            string     `json:"id"`
	Position      int        `json:"position"`
	IssueID       string     `json:"issue_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	AssigneeEmail string     `json:"assignee_email,omitempty"`
}

type StatusOption struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BoardID string `json:"project_board_id"`
}

type StatusView struct {
	Options []StatusOption `json:"options"`
	Current *StatusOption  `json:"current"`
}

type IssueView struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Type        IssueType  `json:"type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	CreatedByID string     `json:"created_by_id"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	ChildIDs    []string   `json:"children_ids"`
	LabelIDs    []string   `json:"label_ids"`
	CommentIDs  []string   `json:"comment_ids"`
	BoardID     string     `json:"project_board_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CommentView struct {
	ID             string    `json:"id"`
	IssueID        string    `json:"issue_id"`
	AuthorID       string    `json:"author_id"`
	ParentID       string    `json:"parent_id,omitempty"`
	Text           string    `json:"text"`
	LikedByUserIDs []string  `json:"liked_by_user_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type HistoryView struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issue_id"`
	AuthorID  string    `json:"author_id"`
	Topic     string    `json:"topic"`
	Previous  string    `json:"previous"`
	Current   string    `json:"current"`
	CreatedAt time.Time `json:"created_at"`
}

type UserView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     string    `json:"position,omitempty"`
	Department   string    `json:"department,omitempty"`
	Organization string    `json:"organization,omitempty"`
	HomePhone    string    `json:"home_phone,omitempty"`
	WorkPhone    string    `json:"work_phone,omitempty"`
	AddressID    string    `json:"address_id,omitempty"`
	TeamID       string    `json:"team_id,omitempty"`
	PictureID    string    `json:"profile_picture_id,omitempty"`
	CoverID      string    `json:"cover_image_id,omitempty"`
	LastActive   time.Time `json:"last_active"`
}

type ProjectView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LabelView struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

type TeamView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
}

type AddressView struct {
	ID              string `json:"id"`
	Street          string `json:"street"`
	HouseNumber     string `json:"house_number"`
	ApartmentNumber string `json:"apartment_number,omitempty"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	Country         string `json:"country"`
}

type FileView struct {
	ID       string     `json:"id"`
	Filename string     `json:"filename"`
	Status   FileStatus `json:"status"`
}
