package service

import "github.com/google/uuid"

// validID reports whether id is a canonical UUID, the only form the id columns accept.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
