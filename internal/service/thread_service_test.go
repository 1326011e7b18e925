package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vlad4uk/padaroja-cli/internal/dto"
	"github.com/vlad4uk/padaroja-cli/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func testComment(id uint, parentID *uint, userID uint, content string) model.Comment {
	return model.Comment{
		ID:         id,
		PostID:     1,
		UserID:     userID,
		ParentID:   parentID,
		Content:    content,
		IsApproved: true,
		User:       model.CommentUser{ID: userID, Username: "путник"},
	}
}

// registerCommentList 注册分页评论列表接口
func registerCommentList(r *gin.Engine, pages [][]model.Comment) {
	r.GET("/api/comments/post/:id", func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 || page > len(pages) {
			c.JSON(http.StatusOK, gin.H{
				"comments": []model.Comment{}, "total": 0,
				"page": page, "limit": 100, "has_more": false,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"comments": pages[page-1],
			"total":    len(pages) * len(pages[0]),
			"page":     page,
			"limit":    len(pages[0]),
			"has_more": page < len(pages),
		})
	})
}

// TestLoadBuildsSession 分页拉取后建树并预填回复状态
func TestLoadBuildsSession(t *testing.T) {
	pages := [][]model.Comment{
		{
			testComment(1, nil, 10, "отличное место"),
			testComment(2, uintPtr(1), 11, "согласен"),
		},
		{
			testComment(3, nil, 12, "добавил в планы"),
			testComment(4, uintPtr(99), 13, "родитель удалён"),
		},
	}

	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, pages)
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 2)
	assert.NoError(t, s.Load(context.Background()))

	assert.Equal(t, 4, s.Len())
	roots := s.Roots()
	// 悬空parent_id的评论按顶级处理，不丢弃
	assert.Len(t, roots, 3)

	// 顶级评论1的已知回复被预填，默认仍是收起状态
	st := s.ReplyState(1)
	assert.False(t, st.Expanded)
	assert.Len(t, st.Replies, 1)
	assert.Equal(t, uint(2), st.Replies[0].ID)
}

// TestToggleRepliesFetchesOnce 首次展开才拉取，已有数据的再次展开不重复拉取
func TestToggleRepliesFetchesOnce(t *testing.T) {
	var fetches atomic.Int32
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.GET("/api/comments/:id/replies", func(c *gin.Context) {
			fetches.Add(1)
			c.JSON(http.StatusOK, gin.H{"replies": []model.Comment{
				testComment(2, uintPtr(1), 11, "ответ"),
			}})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	expanded, err := s.ToggleReplies(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, expanded)
	assert.Equal(t, int32(1), fetches.Load())
	assert.Len(t, s.ReplyState(1).Replies, 1)

	// 收起再展开，本地已有数据，不再拉取
	expanded, err = s.ToggleReplies(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, expanded)

	expanded, err = s.ToggleReplies(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, expanded)
	assert.Equal(t, int32(1), fetches.Load())
}

// TestToggleRepliesMergeDeduplicates 拉取在途时本地新增的回复在合并时优先保留
func TestToggleRepliesMergeDeduplicates(t *testing.T) {
	release := make(chan struct{})
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.GET("/api/comments/:id/replies", func(c *gin.Context) {
			<-release
			c.JSON(http.StatusOK, gin.H{"replies": []model.Comment{
				testComment(2, uintPtr(1), 11, "серверная версия"),
				testComment(3, uintPtr(1), 12, "новый ответ"),
			}})
		})
		r.POST("/api/comments/post/:id", func(c *gin.Context) {
			var req dto.CommentCreateRequest
			assert.NoError(t, c.ShouldBindJSON(&req))
			c.JSON(http.StatusCreated, gin.H{
				"message": "создано",
				"comment": testComment(2, req.ParentID, 11, req.Content),
			})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := s.ToggleReplies(context.Background(), 1)
		done <- err
	}()

	// 回复列表在途时用户发出了同一条回复，合并后本地条目优先
	author := model.Identity{UserID: 11}
	_, err := s.Reply(context.Background(), author, 1, "локальная версия")
	assert.NoError(t, err)
	close(release)
	assert.NoError(t, <-done)

	st := s.ReplyState(1)
	assert.Len(t, st.Replies, 2)
	for _, reply := range st.Replies {
		if reply.ID == 2 {
			assert.Equal(t, "локальная версия", reply.Content)
		}
	}
}

// TestToggleRepliesFetchAfterDelete 拉取期间评论被删除时静默跳过合并
func TestToggleRepliesFetchAfterDelete(t *testing.T) {
	release := make(chan struct{})
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.GET("/api/comments/:id/replies", func(c *gin.Context) {
			<-release
			c.JSON(http.StatusOK, gin.H{"replies": []model.Comment{
				testComment(2, uintPtr(1), 11, "ответ"),
			}})
		})
		r.DELETE("/api/comments/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	moderator := model.Identity{UserID: 99, IsModerator: true}
	done := make(chan error, 1)
	go func() {
		_, err := s.ToggleReplies(context.Background(), 1)
		done <- err
	}()

	// 回复请求挂起期间删除评论
	assert.NoError(t, s.Delete(context.Background(), moderator, 1, nil))
	close(release)

	assert.NoError(t, <-done)
	assert.Equal(t, 0, s.Len())
	assert.Len(t, s.ReplyState(1).Replies, 0)
}

// TestCreateNotOptimistic 创建失败时本地树不变
func TestCreateNotOptimistic(t *testing.T) {
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.POST("/api/comments/post/:id", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db down"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	author := model.Identity{UserID: 10, Username: "путник"}
	_, err := s.Create(context.Background(), author, "новый комментарий")
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

// TestCreateInsertsServerComment 创建成功后以服务端返回的对象插入
func TestCreateInsertsServerComment(t *testing.T) {
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.POST("/api/comments/post/:id", func(c *gin.Context) {
			var req dto.CommentCreateRequest
			assert.NoError(t, c.ShouldBindJSON(&req))
			c.JSON(http.StatusCreated, gin.H{
				"message": "создано",
				"comment": testComment(50, req.ParentID, 10, req.Content),
			})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	author := model.Identity{UserID: 10, Username: "путник"}
	created, err := s.Create(context.Background(), author, "новый комментарий")
	assert.NoError(t, err)
	assert.Equal(t, uint(50), created.ID)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Roots(), 2)
}

// TestCreateValidationRejected 空内容与超长内容在发请求前被拒绝
func TestCreateValidationRejected(t *testing.T) {
	var calls atomic.Int32
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.POST("/api/comments/post/:id", func(c *gin.Context) {
			calls.Add(1)
			c.JSON(http.StatusCreated, gin.H{"message": "ok"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))
	author := model.Identity{UserID: 10}

	_, err := s.Create(context.Background(), author, "")
	assert.Error(t, err)

	_, err = s.Create(context.Background(), author, strings.Repeat("д", 1001))
	assert.Error(t, err)

	assert.Equal(t, int32(0), calls.Load())
}

// TestReplyTargetsRootComment 回复嵌套评论时按权威树回溯到顶级评论
func TestReplyTargetsRootComment(t *testing.T) {
	var gotParent *uint
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{
			testComment(1, nil, 10, "корневой"),
			testComment(2, uintPtr(1), 11, "ответ"),
			testComment(3, uintPtr(2), 12, "ответ на ответ"),
		}})
		r.POST("/api/comments/post/:id", func(c *gin.Context) {
			var req dto.CommentCreateRequest
			assert.NoError(t, c.ShouldBindJSON(&req))
			gotParent = req.ParentID
			c.JSON(http.StatusCreated, gin.H{
				"message": "создано",
				"comment": testComment(60, req.ParentID, 13, req.Content),
			})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	author := model.Identity{UserID: 13}
	created, err := s.Reply(context.Background(), author, 3, "присоединяюсь")
	assert.NoError(t, err)
	if assert.NotNil(t, gotParent) {
		assert.Equal(t, uint(1), *gotParent)
	}

	// 新回复出现在顶级评论的回复列表并自动展开
	st := s.ReplyState(1)
	assert.True(t, st.Expanded)
	found := false
	for _, reply := range st.Replies {
		if reply.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)
}

// TestDeleteOptimisticNoRollback 删除请求失败时本地移除不回滚
func TestDeleteOptimisticNoRollback(t *testing.T) {
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{
			testComment(1, nil, 10, "корневой"),
			testComment(2, uintPtr(1), 11, "ответ"),
		}})
		r.DELETE("/api/comments/:id", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db down"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	owner := model.Identity{UserID: 10}
	err := s.Delete(context.Background(), owner, 1, func() bool { return true })
	assert.Error(t, err)
	// 子树已经本地移除，重新加载后才会重新出现
	assert.Equal(t, 0, s.Len())
}

// TestDeleteCascadesLocally 删除顶级评论时其子树一并移除
func TestDeleteCascadesLocally(t *testing.T) {
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{
			testComment(1, nil, 10, "корневой"),
			testComment(2, uintPtr(1), 11, "ответ"),
			testComment(3, uintPtr(2), 12, "ответ на ответ"),
			testComment(4, nil, 13, "другой корневой"),
		}})
		r.DELETE("/api/comments/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	moderator := model.Identity{UserID: 99, IsModerator: true}
	assert.NoError(t, s.Delete(context.Background(), moderator, 1, nil))
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Roots(), 1)
}

// TestDeleteForbidden 非作者且非版主不能删除
func TestDeleteForbidden(t *testing.T) {
	var calls atomic.Int32
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.DELETE("/api/comments/:id", func(c *gin.Context) {
			calls.Add(1)
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	stranger := model.Identity{UserID: 55}
	err := s.Delete(context.Background(), stranger, 1, nil)
	assert.ErrorIs(t, err, ErrDeleteForbidden)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int32(0), calls.Load())
}

// TestReportComment 举报评论携带原因，空原因在发请求前被拒绝
func TestReportComment(t *testing.T) {
	var gotReason string
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
		r.POST("/api/mod/comments/:id/complaint", func(c *gin.Context) {
			var req model.ReportReason
			assert.NoError(t, c.ShouldBindJSON(&req))
			gotReason = req.Reason
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	reporter := model.Identity{UserID: 20}
	assert.Error(t, s.Report(context.Background(), reporter, 1, ""))
	assert.NoError(t, s.Report(context.Background(), reporter, 1, "оскорбления"))
	assert.Equal(t, "оскорбления", gotReason)
}

// TestDeleteCancelled 确认回调拒绝时不做任何修改
func TestDeleteCancelled(t *testing.T) {
	ts := newFakeBackend(t, func(r *gin.Engine) {
		registerCommentList(r, [][]model.Comment{{testComment(1, nil, 10, "корневой")}})
	})

	s := NewThreadService(newTestClient(t, ts), NewContentService(""), 1, 100)
	assert.NoError(t, s.Load(context.Background()))

	owner := model.Identity{UserID: 10}
	err := s.Delete(context.Background(), owner, 1, func() bool { return false })
	assert.ErrorIs(t, err, ErrDeleteCancelled)
	assert.Equal(t, 1, s.Len())
}
