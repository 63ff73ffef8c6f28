package model

// ToDoItem is the in-memory representation of one document in the to-do collection.
// The store assigns ID on creation; Completed is the only field that changes afterwards.
type ToDoItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
