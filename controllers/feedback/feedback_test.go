package feedbackController

import (
	"fmt"
	"net/http"
	"testing"

	"fbs/database"
	"fbs/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFeedbackByManager(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)

	view := createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "Clear communication",
		"improvements": "Time estimates",
		"sentiment":    "positive",
		"tags":         []string{"Teamwork", "TEAMWORK", " communication "},
	})

	require.NotNil(t, view.ManagerID)
	assert.Equal(t, manager.ID, *view.ManagerID)
	assert.Equal(t, employee.ID, view.EmployeeID)
	assert.False(t, view.Acknowledged)
	assert.Nil(t, view.AcknowledgedAt)
	// Duplicate labels collapse under normalization
	assert.ElementsMatch(t, []string{"teamwork", "communication"}, view.Tags)

	// The subject got exactly one notification row
	var notifications []models.Notification
	require.NoError(t, database.Database.Db.Where("user_id = ?", employee.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)
}

func TestCreateFeedbackAuthorization(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	peer := newUser(t, "carol", models.RoleEmployee)

	base := map[string]interface{}{
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	}

	t.Run("anonymous manager feedback is invalid", func(t *testing.T) {
		payload := map[string]interface{}{"employee_id": employee.ID, "anonymous": true}
		for k, v := range base {
			payload[k] = v
		}
		code, _ := do(t, app, http.MethodPost, "/feedback/", payload, &manager)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("employee cannot target a manager", func(t *testing.T) {
		payload := map[string]interface{}{"employee_id": manager.ID}
		for k, v := range base {
			payload[k] = v
		}
		code, _ := do(t, app, http.MethodPost, "/feedback/", payload, &employee)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("self feedback is rejected by default", func(t *testing.T) {
		payload := map[string]interface{}{"employee_id": employee.ID}
		for k, v := range base {
			payload[k] = v
		}
		code, _ := do(t, app, http.MethodPost, "/feedback/", payload, &employee)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("anonymous peer feedback is allowed", func(t *testing.T) {
		payload := map[string]interface{}{"employee_id": peer.ID, "anonymous": true}
		for k, v := range base {
			payload[k] = v
		}
		code, _ := do(t, app, http.MethodPost, "/feedback/", payload, &employee)
		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("unknown subject is not found", func(t *testing.T) {
		payload := map[string]interface{}{"employee_id": 9999}
		for k, v := range base {
			payload[k] = v
		}
		code, _ := do(t, app, http.MethodPost, "/feedback/", payload, &manager)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("bad sentiment fails validation", func(t *testing.T) {
		code, _ := do(t, app, http.MethodPost, "/feedback/", map[string]interface{}{
			"employee_id":  employee.ID,
			"strengths":    "s",
			"improvements": "i",
			"sentiment":    "ecstatic",
		}, &manager)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})
}

func TestAnonymousMasking(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	authorA := newUser(t, "bob", models.RoleEmployee)
	subjectB := newUser(t, "carol", models.RoleEmployee)
	third := newUser(t, "dave", models.RoleEmployee)

	hidden := createFeedback(t, app, authorA, map[string]interface{}{
		"employee_id":  subjectB.ID,
		"strengths":    "Great code reviews",
		"improvements": "Speak up more",
		"sentiment":    "positive",
		"anonymous":    true,
	})

	shared := createFeedback(t, app, authorA, map[string]interface{}{
		"employee_id":        subjectB.ID,
		"strengths":          "Helpful",
		"improvements":       "None",
		"sentiment":          "neutral",
		"anonymous":          true,
		"visible_to_manager": true,
	})

	fetch := func(t *testing.T, viewer models.User, id uint) feedbackView {
		code, env := do(t, app, http.MethodGet, fmt.Sprintf("/feedback/%d", id), nil, &viewer)
		require.Equal(t, http.StatusOK, code, env.Message)
		var view feedbackView
		decodeData(t, env, &view)
		return view
	}

	t.Run("author sees own identity", func(t *testing.T) {
		view := fetch(t, authorA, hidden.ID)
		require.NotNil(t, view.Manager)
		assert.Equal(t, authorA.ID, view.Manager.ID)
	})

	t.Run("subject is masked", func(t *testing.T) {
		view := fetch(t, subjectB, hidden.ID)
		assert.Nil(t, view.Manager)
		assert.Nil(t, view.ManagerID)
	})

	t.Run("manager is masked without visibility flag", func(t *testing.T) {
		view := fetch(t, manager, hidden.ID)
		assert.Nil(t, view.Manager)
	})

	t.Run("third party is masked", func(t *testing.T) {
		view := fetch(t, third, hidden.ID)
		assert.Nil(t, view.Manager)
	})

	t.Run("visibility flag exposes author to manager only", func(t *testing.T) {
		view := fetch(t, manager, shared.ID)
		require.NotNil(t, view.Manager)
		assert.Equal(t, authorA.ID, view.Manager.ID)

		subjectView := fetch(t, subjectB, shared.ID)
		assert.Nil(t, subjectView.Manager)
	})

	t.Run("stored row is never altered", func(t *testing.T) {
		var fb models.Feedback
		require.NoError(t, database.Database.Db.First(&fb, hidden.ID).Error)
		assert.Equal(t, authorA.ID, fb.ManagerID)
	})
}

func TestReadVisibility(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	third := newUser(t, "carol", models.RoleEmployee)

	fb := createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	})

	code, _ := do(t, app, http.MethodGet, fmt.Sprintf("/feedback/%d", fb.ID), nil, &third)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, app, http.MethodGet, "/feedback/9999", nil, &manager)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAcknowledgeLifecycle(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)

	fb := createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	})

	t.Run("author cannot acknowledge", func(t *testing.T) {
		code, _ := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/acknowledge", fb.ID), nil, &manager)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("subject acknowledges", func(t *testing.T) {
		code, env := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/acknowledge", fb.ID), nil, &employee)
		require.Equal(t, http.StatusOK, code)

		var view feedbackView
		decodeData(t, env, &view)
		assert.True(t, view.Acknowledged)
		require.NotNil(t, view.AcknowledgedAt)
	})

	t.Run("unacknowledge clears both fields", func(t *testing.T) {
		code, env := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/unacknowledge", fb.ID), nil, &employee)
		require.Equal(t, http.StatusOK, code)

		var view feedbackView
		decodeData(t, env, &view)
		assert.False(t, view.Acknowledged)
		assert.Nil(t, view.AcknowledgedAt)

		var stored models.Feedback
		require.NoError(t, database.Database.Db.First(&stored, fb.ID).Error)
		assert.False(t, stored.Acknowledged)
		assert.Nil(t, stored.AcknowledgedAt)
	})
}

func TestCommentSlot(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	third := newUser(t, "carol", models.RoleEmployee)

	fb := createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	})

	payload := map[string]interface{}{"comment": "Thanks, noted."}

	t.Run("author cannot comment", func(t *testing.T) {
		code, _ := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/comment", fb.ID), payload, &manager)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("third party cannot comment", func(t *testing.T) {
		code, _ := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/comment", fb.ID), payload, &third)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("subject comments and author is notified", func(t *testing.T) {
		code, env := do(t, app, http.MethodPost, fmt.Sprintf("/feedback/%d/comment", fb.ID), payload, &employee)
		require.Equal(t, http.StatusOK, code)

		var view feedbackView
		decodeData(t, env, &view)
		require.NotNil(t, view.Comment)
		assert.Equal(t, "Thanks, noted.", *view.Comment)

		var notifications []models.Notification
		require.NoError(t, database.Database.Db.Where("user_id = ?", manager.ID).Find(&notifications).Error)
		require.Len(t, notifications, 1)
	})

	t.Run("subject updates the comment", func(t *testing.T) {
		code, env := do(t, app, http.MethodPut, fmt.Sprintf("/feedback/%d/comment", fb.ID),
			map[string]interface{}{"comment": "Revised."}, &employee)
		require.Equal(t, http.StatusOK, code)

		var view feedbackView
		decodeData(t, env, &view)
		require.NotNil(t, view.Comment)
		assert.Equal(t, "Revised.", *view.Comment)
	})

	t.Run("subject deletes the comment", func(t *testing.T) {
		code, env := do(t, app, http.MethodDelete, fmt.Sprintf("/feedback/%d/comment", fb.ID), nil, &employee)
		require.Equal(t, http.StatusOK, code)

		var view feedbackView
		decodeData(t, env, &view)
		assert.Nil(t, view.Comment)
	})
}

func TestUpdateDeleteAuthorization(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	otherManager := newUser(t, "erin", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	peer := newUser(t, "carol", models.RoleEmployee)

	fb := createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	})

	update := map[string]interface{}{"strengths": "updated"}

	t.Run("subject cannot edit", func(t *testing.T) {
		code, _ := do(t, app, http.MethodPut, fmt.Sprintf("/feedback/%d", fb.ID), update, &employee)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("other manager cannot delete", func(t *testing.T) {
		code, _ := do(t, app, http.MethodDelete, fmt.Sprintf("/feedback/%d", fb.ID), nil, &otherManager)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("author edits text and tags", func(t *testing.T) {
		code, env := do(t, app, http.MethodPut, fmt.Sprintf("/feedback/%d", fb.ID), map[string]interface{}{
			"strengths": "updated",
			"sentiment": "negative",
			"tags":      []string{"Clarity"},
		}, &manager)
		require.Equal(t, http.StatusOK, code, env.Message)

		var view feedbackView
		decodeData(t, env, &view)
		assert.Equal(t, "updated", view.Strengths)
		assert.Equal(t, "negative", view.Sentiment)
		assert.Equal(t, []string{"clarity"}, view.Tags)
	})

	t.Run("peer author manages own entry", func(t *testing.T) {
		peerFb := createFeedback(t, app, employee, map[string]interface{}{
			"employee_id":  peer.ID,
			"strengths":    "s",
			"improvements": "i",
			"sentiment":    "positive",
		})

		code, _ := do(t, app, http.MethodPut, fmt.Sprintf("/feedback/%d", peerFb.ID), update, &employee)
		assert.Equal(t, http.StatusOK, code)

		code, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/feedback/%d", peerFb.ID), nil, &employee)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("author deletes own entry", func(t *testing.T) {
		code, _ := do(t, app, http.MethodDelete, fmt.Sprintf("/feedback/%d", fb.ID), nil, &manager)
		assert.Equal(t, http.StatusOK, code)

		code, _ = do(t, app, http.MethodGet, fmt.Sprintf("/feedback/%d", fb.ID), nil, &manager)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestFeedbackListScope(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	peer := newUser(t, "carol", models.RoleEmployee)
	third := newUser(t, "dave", models.RoleEmployee)

	createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
	})
	createFeedback(t, app, employee, map[string]interface{}{
		"employee_id":  peer.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "positive",
		"anonymous":    true,
	})

	list := func(t *testing.T, viewer models.User) []feedbackView {
		code, env := do(t, app, http.MethodGet, "/feedback/", nil, &viewer)
		require.Equal(t, http.StatusOK, code)

		var data struct {
			Feedback []feedbackView `json:"feedback"`
		}
		decodeData(t, env, &data)
		return data.Feedback
	}

	// Third party sees only the anonymous entry, masked
	views := list(t, third)
	require.Len(t, views, 1)
	assert.True(t, views[0].Anonymous)
	assert.Nil(t, views[0].Manager)

	// The subject of the direct entry sees both: theirs and the anonymous one
	views = list(t, employee)
	assert.Len(t, views, 2)
}

func TestTagListEndpoint(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)

	createFeedback(t, app, manager, map[string]interface{}{
		"employee_id":  employee.ID,
		"strengths":    "s",
		"improvements": "i",
		"sentiment":    "neutral",
		"tags":         []string{"Zeal", "attention"},
	})

	code, env := do(t, app, http.MethodGet, "/feedback/tags", nil, &employee)
	require.Equal(t, http.StatusOK, code)

	var tags []models.Tag
	decodeData(t, env, &tags)
	require.Len(t, tags, 2)
	// Ordered by name
	assert.Equal(t, "attention", tags[0].Name)
	assert.Equal(t, "zeal", tags[1].Name)
}

func TestUnauthenticatedAccess(t *testing.T) {
	app := setupApp(t)

	code, _ := do(t, app, http.MethodGet, "/feedback/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
