package ui

// The dashboard renderer is a pure function from a store snapshot to a
// document. It performs no I/O: the snapshot is serialized verbatim into a
// JSON script block and the document's own script reads it back out. The
// document never talks to the network; every user interaction becomes a
// postMessage to the hosting surface.

import (
	"encoding/json"
	"strings"

	"github.com/uihost/todoboard/pkg/stores"
)

// DashboardURI is the stable logical identifier of the todo dashboard.
const DashboardURI = "ui://todo/dashboard"

const snapshotMarker = "__TODOS_JSON__"

// RenderDashboard produces the embedded dashboard resource for a snapshot.
// The same snapshot always yields the same document.
func RenderDashboard(todos []stores.Todo) (Embedded, error) {
	if todos == nil {
		todos = []stores.Todo{}
	}

	raw, err := json.Marshal(todos)

	if err != nil {
		return Embedded{}, err
	}

	// A "</script>" inside a title would terminate the JSON block early, so
	// any "</" is neutralized before embedding.
	safe := strings.ReplaceAll(string(raw), "</", "<\\/")

	return Embedded{
		Type: "resource",
		Resource: Resource{
			URI:      DashboardURI,
			MimeType: "text/html",
			Text:     strings.Replace(dashboardHTML, snapshotMarker, safe, 1),
		},
	}, nil
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <style>
    :root { font-family: system-ui, -apple-system, 'Segoe UI', sans-serif; color-scheme: light; }
    body { margin: 0; padding: 16px; background: #f8fafc; color: #0f172a; }
    .card { background: #fff; border-radius: 14px; padding: 24px; box-shadow: 0 10px 40px rgba(15,23,42,0.08); margin-bottom: 20px; }
    .card-header { display: flex; justify-content: space-between; align-items: center; gap: 12px; flex-wrap: wrap; }
    .card-header h2 { margin: 0; font-size: 1.3rem; }
    .ghost { border: 1px solid #0f172a; border-radius: 999px; padding: 0.4rem 1.5rem; font-weight: 600; background: transparent; cursor: pointer; }
    .form-grid { margin-top: 20px; display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 16px; }
    .form-card { border: 1px solid #e2e8f0; border-radius: 12px; padding: 16px; display: flex; flex-direction: column; gap: 12px; }
    .form-card h3 { margin: 0; }
    .field { display: flex; flex-direction: column; gap: 6px; font-size: 0.9rem; color: #475569; }
    .field input, .field select { border-radius: 8px; border: 1px solid #cbd5e1; padding: 0.55rem; font-size: 0.95rem; }
    .check { display: flex; align-items: center; gap: 8px; font-weight: 500; }
    .form-card button { border: none; border-radius: 10px; padding: 0.6rem; font-weight: 600; background: #0f172a; color: #fff; cursor: pointer; }
    .form-card button.danger { background: #dc2626; }
    .todo-list { list-style: none; padding: 0; margin: 0; display: flex; flex-direction: column; gap: 12px; }
    .todo-item { border: 1px solid #e2e8f0; border-radius: 12px; padding: 12px 16px; display: flex; justify-content: space-between; align-items: center; gap: 12px; }
    .todo-title { margin: 0; font-weight: 600; }
    .todo-id { margin: 0; font-size: 0.75rem; color: #94a3b8; word-break: break-all; }
    .status { padding: 0.25rem 0.75rem; border-radius: 999px; font-size: 0.85rem; font-weight: 600; }
    .status.done { background: #dcfce7; color: #15803d; }
    .status.open { background: #fee2e2; color: #b91c1c; }
    .empty { margin: 0; color: #94a3b8; }
    .message { border-radius: 10px; padding: 12px 16px; font-size: 0.95rem; font-weight: 500; background: #eef2ff; color: #312e81; }
    .hidden { display: none; }
  </style>
</head>
<body>
  <section class="card">
    <div class="card-header">
      <div>
        <h2>Todo Dashboard</h2>
      </div>
      <button id="refresh-btn" class="ghost">Refresh</button>
    </div>
    <div class="form-grid">
      <form id="create-form" class="form-card">
        <h3>Add Todo</h3>
        <label class="field">
          <span>Title</span>
          <input name="title" placeholder="Write documentation" />
        </label>
        <label class="check">
          <input type="checkbox" name="completed" />
          <span>Mark as completed</span>
        </label>
        <button type="submit">Create</button>
      </form>
      <form id="update-form" class="form-card">
        <h3>Edit Todo</h3>
        <label class="field">
          <span>Todo</span>
          <select id="update-id" name="id"></select>
        </label>
        <label class="field">
          <span>New title (optional)</span>
          <input name="newTitle" placeholder="Keep blank to keep current" />
        </label>
        <label class="check">
          <input type="checkbox" name="newCompleted" />
          <span>Completed</span>
        </label>
        <button type="submit">Update</button>
      </form>
      <form id="delete-form" class="form-card">
        <h3>Delete Todo</h3>
        <label class="field">
          <span>Todo</span>
          <select id="delete-id" name="id"></select>
        </label>
        <button type="submit" class="danger">Delete</button>
      </form>
    </div>
  </section>
  <section class="card">
    <h3>Todos</h3>
    <ul id="todo-items" class="todo-list"></ul>
  </section>
  <div id="message" class="message hidden"></div>
  <script type="application/json" id="todos-data">__TODOS_JSON__</script>
  <script>
    (function () {
      var messageBox = document.getElementById('message');

      var setMessage = function (text) {
        if (!text) {
          messageBox.classList.add('hidden');
          return;
        }
        messageBox.textContent = text;
        messageBox.classList.remove('hidden');
      };

      var sendTool = function (toolName, params) {
        if (window.parent && window.parent !== window) {
          window.parent.postMessage({ type: 'tool', payload: { toolName: toolName, params: params } }, '*');
          setMessage('Sent request to ' + toolName + ' ...');
        } else {
          setMessage('Missing host frame to send action.');
        }
      };

      var parseTodos = function () {
        try {
          return JSON.parse(document.getElementById('todos-data').textContent || '[]');
        } catch (err) {
          return [];
        }
      };

      var renderTodos = function (items) {
        var list = document.getElementById('todo-items');
        list.innerHTML = '';
        if (!items.length) {
          var empty = document.createElement('p');
          empty.className = 'empty';
          empty.textContent = 'No todos yet.';
          list.appendChild(empty);
          return;
        }
        items.forEach(function (todo) {
          var li = document.createElement('li');
          li.className = 'todo-item';
          var copy = document.createElement('div');
          var title = document.createElement('p');
          title.className = 'todo-title';
          title.textContent = todo.title;
          var id = document.createElement('p');
          id.className = 'todo-id';
          id.textContent = todo.id;
          copy.appendChild(title);
          copy.appendChild(id);
          var status = document.createElement('span');
          status.className = 'status ' + (todo.completed ? 'done' : 'open');
          status.textContent = todo.completed ? 'Done' : 'Open';
          li.appendChild(copy);
          li.appendChild(status);
          list.appendChild(li);
        });
      };

      var populateSelect = function (select, items) {
        select.innerHTML = '';
        var placeholder = document.createElement('option');
        placeholder.value = '';
        placeholder.textContent = 'Select todo';
        placeholder.disabled = true;
        placeholder.selected = true;
        select.appendChild(placeholder);
        items.forEach(function (todo) {
          var option = document.createElement('option');
          option.value = todo.id;
          option.textContent = todo.title;
          select.appendChild(option);
        });
      };

      var todos = parseTodos();
      renderTodos(todos);
      populateSelect(document.getElementById('update-id'), todos);
      populateSelect(document.getElementById('delete-id'), todos);

      document.getElementById('refresh-btn').addEventListener('click', function () {
        sendTool('todo_list', {});
      });

      document.getElementById('create-form').addEventListener('submit', function (event) {
        event.preventDefault();
        var form = event.target;
        var title = form.elements['title'].value.trim();
        if (!title) {
          setMessage('Title is required');
          return;
        }
        sendTool('todo_create', { title: title, completed: form.elements['completed'].checked });
        form.reset();
      });

      document.getElementById('update-form').addEventListener('submit', function (event) {
        event.preventDefault();
        var form = event.target;
        var id = form.elements['id'].value;
        if (!id) {
          setMessage('Select a todo to update');
          return;
        }
        var payload = { id: id, completed: form.elements['newCompleted'].checked };
        var newTitle = form.elements['newTitle'].value.trim();
        if (newTitle) {
          payload.title = newTitle;
        }
        sendTool('todo_update', payload);
      });

      document.getElementById('delete-form').addEventListener('submit', function (event) {
        event.preventDefault();
        var id = event.target.elements['id'].value;
        if (!id) {
          setMessage('Select a todo to delete');
          return;
        }
        sendTool('todo_delete', { id: id });
      });
    })();
  </script>
</body>
</html>`
