package domain

// CanAccess reports whether user may read or mutate todo. Only the owner can.
func CanAccess(user *User, todo *Todo) bool {
	if user == nil || todo == nil || user.ID == "" {
		return false
	}
	return todo.UserID == user.ID
}

// Authorize resolves the access decision into the error the caller surfaces.
// A missing record is NOT_FOUND, a foreign one is FORBIDDEN.
func Authorize(user *User, todo *Todo) error {
	if todo == nil {
		return ErrTodoNotFound
	}
	if !CanAccess(user, todo) {
		return ErrForbidden
	}
	return nil
}
