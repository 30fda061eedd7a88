package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapStudentsRequestIDs(t *testing.T) {
	single := int64(3)
	req := MapStudentsRequest{StudentID: &single, StudentIDs: []int64{1, 3, 2, 1}, TeacherID: 7}
	assert.Equal(t, []int64{3, 1, 2}, req.IDs())

	assert.Empty(t, MapStudentsRequest{TeacherID: 7}.IDs())
}
