package console

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/hbnb/internal/domain"
	"github.com/joss/hbnb/internal/logging"
	"github.com/joss/hbnb/internal/store"
	"github.com/joss/hbnb/internal/testutil"
)

type harness struct {
	console *Console
	store   *store.FileStore
	out     *bytes.Buffer
	logs    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var out, logs bytes.Buffer
	logger := logging.NewWithWriter("console", &logs, logging.LevelDebug)
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "file.json"), domain.DefaultRegistry(), logger.Component("storage"))
	c := New(fs, domain.DefaultRegistry(), &out, Options{Interactive: true, Logger: logger})
	return &harness{console: c, store: fs, out: &out, logs: &logs}
}

// run executes line and returns what it printed.
func (h *harness) run(line string) string {
	h.out.Reset()
	h.console.Execute(line)
	return h.out.String()
}

func (h *harness) create(t *testing.T, class string) string {
	t.Helper()
	id := strings.TrimSpace(h.run("create " + class))
	require.NotEmpty(t, id)
	return id
}

func TestErrorMessages(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "User")

	tests := []struct {
		line string
		want string
	}{
		{"create", "** class name missing **\n"},
		{"create MyModel", "** class doesn't exist **\n"},
		{"show", "** class name missing **\n"},
		{"show MyModel", "** class doesn't exist **\n"},
		{"show User", "** instance id missing **\n"},
		{"show User 121212", "** no instance found **\n"},
		{"show Place " + id, "** no instance found **\n"},
		{"destroy", "** class name missing **\n"},
		{"destroy MyModel 1", "** class doesn't exist **\n"},
		{"destroy User", "** instance id missing **\n"},
		{"destroy User 121212", "** no instance found **\n"},
		{"all MyModel", "** class doesn't exist **\n"},
		{"update", "** class name missing **\n"},
		{"update MyModel", "** class doesn't exist **\n"},
		{"update User", "** instance id missing **\n"},
		{"update User 121212", "** no instance found **\n"},
		{"update User " + id, "** attribute name missing **\n"},
		{"update User " + id + " email", "** value missing **\n"},
		{"MyModel.count()", "** class doesn't exist **\n"},
		{"MyModel.all()", "** class doesn't exist **\n"},
		{`User.show("121212")`, "** no instance found **\n"},
		{"User.show()", "** instance id missing **\n"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, h.run(tt.line))
		})
	}
}

func TestCreateShow(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "BaseModel")

	e, err := h.store.Get(domain.KindBaseModel, id)
	require.NoError(t, err)

	assert.Equal(t, domain.Render(e)+"\n", h.run("show BaseModel "+id))
	assert.Equal(t, domain.Render(e)+"\n", h.run(`BaseModel.show("`+id+`")`))

	data, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "BaseModel."+id)
}

func TestCreateEveryClass(t *testing.T) {
	h := newHarness(t)
	for _, kind := range domain.DefaultRegistry().Kinds() {
		id := h.create(t, string(kind))
		_, err := h.store.Get(kind, id)
		assert.NoError(t, err, kind)
	}
	assert.Len(t, h.store.All(), len(domain.DefaultRegistry().Kinds()))
}

func TestShowSeeded(t *testing.T) {
	h := newHarness(t)
	p := testutil.Seed(t, h.store, domain.KindPlace).(*domain.Place)
	u := testutil.Seed(t, h.store, domain.KindUser).(*domain.User)

	out := h.run("show Place " + p.ID)
	assert.True(t, strings.HasPrefix(out, "[Place] ("+p.ID+") {'id': '"+p.ID+"'"))
	assert.Contains(t, out, "'number_rooms': "+strconv.Itoa(p.NumberRooms()))
	assert.Contains(t, out, "'max_guest': "+strconv.Itoa(p.MaxGuest()))
	assert.Contains(t, h.run(`User.show("`+u.ID+`")`), "'email': '"+u.Email()+"'")
	assert.Equal(t, "1\n", h.run("Place.count()"))
}

func TestDestroy(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "State")
	keep := h.create(t, "State")

	assert.Empty(t, h.run("destroy State "+id))
	assert.Equal(t, "** no instance found **\n", h.run("show State "+id))

	fresh := store.NewFileStore(h.store.Path(), domain.DefaultRegistry(), nil)
	require.NoError(t, fresh.Reload())
	assert.Len(t, fresh.All(), 1)
	_, err := fresh.Get(domain.KindState, keep)
	assert.NoError(t, err)

	assert.Empty(t, h.run(`State.destroy("`+keep+`")`))
	assert.Empty(t, h.store.All())
}

func TestDestroyUnknownDoesNotWrite(t *testing.T) {
	h := newHarness(t)
	h.create(t, "City")
	info, err := os.Stat(h.store.Path())
	require.NoError(t, err)
	before, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, "** no instance found **\n", h.run("destroy City nope"))

	after, err := os.Stat(h.store.Path())
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
	data, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(data))
}

func TestUpdate(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "User")
	e, err := h.store.Get(domain.KindUser, id)
	require.NoError(t, err)
	created := e.Meta().CreatedAt
	stamped := e.Meta().UpdatedAt

	time.Sleep(2 * time.Millisecond)
	assert.Empty(t, h.run(`update User `+id+` first_name "Betty Holberton"`))

	u := e.(*domain.User)
	assert.Equal(t, "Betty Holberton", u.FirstName())
	assert.True(t, u.UpdatedAt.After(stamped))
	assert.Equal(t, created, u.CreatedAt)
	assert.Contains(t, h.run("show User "+id), "'first_name': 'Betty Holberton'")

	fresh := store.NewFileStore(h.store.Path(), domain.DefaultRegistry(), nil)
	require.NoError(t, fresh.Reload())
	back, err := fresh.Get(domain.KindUser, id)
	require.NoError(t, err)
	assert.Equal(t, "Betty Holberton", back.(*domain.User).FirstName())
}

func TestUpdateStoresStrings(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "Place")

	h.run("update Place " + id + " number_rooms 4")
	e, err := h.store.Get(domain.KindPlace, id)
	require.NoError(t, err)

	v, ok := e.Meta().Get(domain.FieldNumberRooms)
	require.True(t, ok)
	assert.Equal(t, "4", v)
	assert.Equal(t, 4, e.(*domain.Place).NumberRooms())
}

func TestUpdateReservedIgnored(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "Amenity")
	e, err := h.store.Get(domain.KindAmenity, id)
	require.NoError(t, err)
	stamped := e.Meta().UpdatedAt

	for _, name := range []string{"id", "created_at", "updated_at"} {
		assert.Empty(t, h.run("update Amenity "+id+" "+name+" x"))
	}
	assert.Equal(t, id, e.Meta().ID)
	assert.Equal(t, stamped, e.Meta().UpdatedAt)
	assert.Empty(t, e.Meta().Attributes())
}

func TestDottedUpdate(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "City")

	assert.Empty(t, h.run(`City.update("`+id+`", "name", "San Francisco")`))
	e, err := h.store.Get(domain.KindCity, id)
	require.NoError(t, err)
	assert.Equal(t, "San Francisco", e.(*domain.City).Name())

	assert.Equal(t, "** attribute name missing **\n", h.run(`City.update("`+id+`")`))
	assert.Equal(t, "** value missing **\n", h.run(`City.update("`+id+`", "name")`))
}

func TestCount(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.create(t, "User")
	}
	h.create(t, "Place")
	h.create(t, "Place")

	assert.Equal(t, "3\n", h.run("User.count()"))
	assert.Equal(t, "2\n", h.run("Place.count()"))
	assert.Equal(t, "0\n", h.run("Review.count()"))
	assert.Equal(t, "*** Unknown syntax: count User\n", h.run("count User"))
}

func TestAll(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "[]\n", h.run("all"))

	u := h.create(t, "User")
	s := h.create(t, "State")

	ue, err := h.store.Get(domain.KindUser, u)
	require.NoError(t, err)
	se, err := h.store.Get(domain.KindState, s)
	require.NoError(t, err)

	want := domain.Repr([]string{domain.Render(ue), domain.Render(se)}) + "\n"
	assert.Equal(t, want, h.run("all"))
	assert.True(t, strings.HasPrefix(h.run("all"), `["[User] (`+u+`) {`))

	onlyUsers := domain.Repr([]string{domain.Render(ue)}) + "\n"
	assert.Equal(t, onlyUsers, h.run("all User"))
	assert.Equal(t, onlyUsers, h.run("User.all()"))
	assert.Equal(t, "[]\n", h.run("Review.all()"))
}

func TestUnknownSyntax(t *testing.T) {
	h := newHarness(t)

	assert.Empty(t, h.run(""))
	assert.Empty(t, h.run("   "))
	assert.Equal(t, "*** Unknown syntax: frobnicate now\n", h.run("frobnicate now"))
	assert.Equal(t, "*** Unknown syntax: User.fly()\n", h.run("User.fly()"))
	assert.Equal(t, "*** Unknown syntax: update User 1 name \"open\n", h.run(`update User 1 name "open`))
	assert.Equal(t, "*** Unknown syntax: User.show(\"1\", )\n", h.run(`User.show("1", )`))
}

func TestHelp(t *testing.T) {
	color.NoColor = true
	h := newHarness(t)

	out := h.run("help")
	assert.True(t, strings.HasPrefix(out, "\nDocumented commands (type help <topic>):\n"))
	for _, name := range []string{"EOF", "all", "create", "destroy", "help", "quit", "show", "update"} {
		assert.Contains(t, out, name)
	}

	assert.Equal(t, "Quit command to exit the program\n", h.run("help quit"))
	assert.Equal(t, h.run("help create"), h.run("?create"))
	assert.Equal(t, "*** No help on fly\n", h.run("help fly"))
}

func TestQuitAndEOF(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.console.Execute("quit"))
	assert.True(t, h.console.Execute("EOF"))
	assert.False(t, h.console.Execute("all"))
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	err := h.console.Run(context.Background(), strings.NewReader("create User\nUser.count()\nquit\nall\n"))
	require.NoError(t, err)

	lines := strings.Split(h.out.String(), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "(hbnb) "))
	assert.Equal(t, "(hbnb) 1", lines[1])
	assert.Equal(t, "(hbnb) ", lines[2])
}

func TestRunEndOfInput(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.console.Run(context.Background(), strings.NewReader("create State\n")))
	assert.Equal(t, 1, strings.Count(h.out.String(), "\n"))
	assert.True(t, strings.HasSuffix(h.out.String(), "(hbnb) "))
	assert.Contains(t, h.logs.String(), "session_started")
}

func TestRunNonInteractive(t *testing.T) {
	var out bytes.Buffer
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "file.json"), domain.DefaultRegistry(), nil)
	c := New(fs, domain.DefaultRegistry(), &out, Options{Logger: logging.NewWithWriter("console", &bytes.Buffer{}, logging.LevelError)})

	require.NoError(t, c.Run(context.Background(), strings.NewReader("Amenity.count()\n")))
	assert.Equal(t, "(hbnb) \n0\n(hbnb) \n", out.String())
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.console.Run(ctx, strings.NewReader("create User\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.store.All())
}

func TestPanicRecovered(t *testing.T) {
	h := newHarness(t)
	h.console.add(&command{
		name: "boom",
		run:  func([]string) bool { panic("kaboom") },
	})

	assert.False(t, h.console.Execute("boom"))
	assert.Contains(t, h.out.String(), "*** panic in console: kaboom")
	assert.Contains(t, h.logs.String(), "panic_recovered")
}
