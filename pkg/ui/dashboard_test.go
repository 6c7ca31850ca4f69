package ui

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uihost/todoboard/pkg/stores"
)

func TestRenderDashboard_EmptySnapshot(t *testing.T) {
	embedded, err := RenderDashboard(nil)

	assert.NoError(t, err)
	assert.Equal(t, "resource", embedded.Type)
	assert.Equal(t, DashboardURI, embedded.Resource.URI)
	assert.Equal(t, "text/html", embedded.Resource.MimeType)
	assert.Contains(t, embedded.Resource.Text, `<script type="application/json" id="todos-data">[]</script>`)
}

func TestRenderDashboard_EmbedsSnapshotVerbatim(t *testing.T) {
	todos := []stores.Todo{
		{ID: "a-1", Title: "Buy milk", Completed: false},
		{ID: "b-2", Title: "Ship release", Completed: true},
	}

	embedded, err := RenderDashboard(todos)
	assert.NoError(t, err)

	raw, _ := json.Marshal(todos)
	assert.Contains(t, embedded.Resource.Text, string(raw))
}

func TestRenderDashboard_Deterministic(t *testing.T) {
	todos := []stores.Todo{{ID: "x", Title: "same", Completed: false}}

	first, err := RenderDashboard(todos)
	assert.NoError(t, err)

	second, err := RenderDashboard(todos)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderDashboard_NeutralizesScriptBreakout(t *testing.T) {
	todos := []stores.Todo{
		{ID: "evil", Title: "</script><script>alert(1)</script>", Completed: false},
	}

	embedded, err := RenderDashboard(todos)
	assert.NoError(t, err)

	// The raw closing sequence must never appear inside the JSON block.
	start := strings.Index(embedded.Resource.Text, `id="todos-data">`)
	end := strings.Index(embedded.Resource.Text[start:], "</script>")
	block := embedded.Resource.Text[start : start+end]

	assert.NotContains(t, block, "</script>")
	assert.Contains(t, block, `<\/script>`)
}

func TestRenderDashboard_FullDocument(t *testing.T) {
	embedded, err := RenderDashboard(nil)
	assert.NoError(t, err)

	text := embedded.Resource.Text

	// Self-contained document with forms for each mutation and a refresh
	// affordance; interactions post to the parent frame, never the network.
	assert.True(t, strings.HasPrefix(text, "<!DOCTYPE html>"))
	assert.Contains(t, text, `id="create-form"`)
	assert.Contains(t, text, `id="update-form"`)
	assert.Contains(t, text, `id="delete-form"`)
	assert.Contains(t, text, `id="refresh-btn"`)
	assert.Contains(t, text, "window.parent.postMessage")
	assert.NotContains(t, text, "fetch(")
	assert.NotContains(t, text, "XMLHttpRequest")
}
