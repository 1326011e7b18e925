package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDisplayContent 未过审的评论展示占位文本，对象本身保留
func TestDisplayContent(t *testing.T) {
	approved := Comment{Content: "отличное место", IsApproved: true}
	assert.Equal(t, "отличное место", approved.DisplayContent())

	hidden := Comment{Content: "скрытый текст", IsApproved: false}
	assert.Equal(t, ModeratedPlaceholder, hidden.DisplayContent())
	assert.Equal(t, "скрытый текст", hidden.Content)
}

// TestIsRoot 顶级评论判定
func TestIsRoot(t *testing.T) {
	assert.True(t, (&Comment{}).IsRoot())
	zero := uint(0)
	assert.True(t, (&Comment{ParentID: &zero}).IsRoot())
	one := uint(1)
	assert.False(t, (&Comment{ParentID: &one}).IsRoot())
}

// TestCanDelete 本人或版主可删除
func TestCanDelete(t *testing.T) {
	assert.False(t, Anonymous.CanDelete(1))

	owner := Identity{UserID: 1}
	assert.True(t, owner.CanDelete(1))
	assert.False(t, owner.CanDelete(2))

	moderator := Identity{UserID: 9, IsModerator: true}
	assert.True(t, moderator.CanDelete(2))
}
