// Package templates holds the page components of the gymlog web UI.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"gymlog/common"
	"gymlog/confirm"
	"gymlog/dateformat"
	"gymlog/detail"
)

// Page carries what every page needs besides its own content.
type Page struct {
	Title    string
	Base     string
	CSRF     template.HTML
	Flashes  []string
	LoggedIn bool
}

var funcs = template.FuncMap{
	"num":  detail.FormatNumber,
	"date": dateformat.Time,
}

var pages = template.Must(template.New("gymlog").Funcs(funcs).Parse(layoutHTML + rootHTML + loginHTML +
	registerHTML + historyHTML + detailHTML + confirmHTML))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

type rootData struct {
	Page
}

func Root(p Page) templ.Component {
	p.Title = "Gymlog"
	return render("root", rootData{Page: p})
}

type authData struct {
	Page
	Error string
}

func Login(p Page, errmsg string) templ.Component {
	p.Title = "Log in"
	return render("login", authData{Page: p, Error: errmsg})
}

func Register(p Page, errmsg string) templ.Component {
	p.Title = "Register"
	return render("register", authData{Page: p, Error: errmsg})
}

type historyData struct {
	Page
	Username  string
	Exercises []common.ExerciseSummary
	Error     string
}

func History(p Page, username string, exercises []common.ExerciseSummary, errmsg string) templ.Component {
	p.Title = "History"
	return render("history", historyData{Page: p, Username: username, Exercises: exercises, Error: errmsg})
}

type detailData struct {
	Page
	detail.Snapshot
	Cardio     *common.CardioRecord
	Resistance *common.ResistanceRecord
	Error      string
}

// ExerciseDetail renders the view state. Only the variant matching the
// view's kind is rendered.
func ExerciseDetail(p Page, snap detail.Snapshot) templ.Component {
	p.Title = "History"
	data := detailData{Page: p, Snapshot: snap}
	switch snap.Kind {
	case common.Cardio:
		data.Cardio = snap.Exercise.Cardio
		if data.Cardio == nil {
			data.Cardio = &common.CardioRecord{}
		}
	case common.Resistance:
		data.Resistance = snap.Exercise.Resistance
		if data.Resistance == nil {
			data.Resistance = &common.ResistanceRecord{}
		}
	}
	if snap.Err != nil {
		data.Error = "Something went wrong: " + snap.Err.Error()
	}
	return render("detail", data)
}

type confirmData struct {
	Page
	Dialog *confirm.Dialog
	Action string
	Back   string
}

// Confirm renders a dialog. Every action but "Cancel" posts its label to
// action; "Cancel" links back.
func Confirm(p Page, d *confirm.Dialog, action, back string) templ.Component {
	p.Title = d.Title
	return render("confirm", confirmData{Page: p, Dialog: d, Action: action, Back: back})
}

const layoutHTML = `
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
</head>
<body>
<header>
	<a href="{{.Base}}/">Gymlog</a>
	{{if .LoggedIn}}
	<a href="{{.Base}}/history">History</a>
	<form method="post" action="{{.Base}}/logout" class="logout">{{.CSRF}}<button type="submit">Log out</button></form>
	{{end}}
</header>
{{range .Flashes}}<p class="flash">{{.}}</p>{{end}}
{{end}}
{{define "footer"}}
</body>
</html>
{{end}}`

const rootHTML = `
{{define "root"}}{{template "header" .}}
<h1 class="title text-center">Gymlog</h1>
{{if .LoggedIn}}<p><a href="{{.Base}}/history">See your history</a></p>
{{else}}<p><a href="{{.Base}}/login">Log in</a> or <a href="{{.Base}}/register">register</a></p>{{end}}
{{template "footer" .}}{{end}}`

const loginHTML = `
{{define "login"}}{{template "header" .}}
<h2 class="title text-center">Log in</h2>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="{{.Base}}/login">
	{{.CSRF}}
	<label>Email: <input class="input" type="email" name="email"></label>
	<label>Password: <input class="input" type="password" name="password"></label>
	<button type="submit">Log in</button>
</form>
<p><a href="{{.Base}}/register">Create an account</a></p>
{{template "footer" .}}{{end}}`

const registerHTML = `
{{define "register"}}{{template "header" .}}
<h2 class="title text-center">Register</h2>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="{{.Base}}/register">
	{{.CSRF}}
	<label>Name: <input class="input" type="text" name="name"></label>
	<label>Email: <input class="input" type="email" name="email"></label>
	<label>Password: <input class="input" type="password" name="password"></label>
	<button type="submit">Register</button>
</form>
{{template "footer" .}}{{end}}`

const historyHTML = `
{{define "history"}}{{template "header" .}}
<h2 class="title text-center">History</h2>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{if .Exercises}}
<ul class="history">
	{{range .Exercises}}
	<li class="history-{{.Kind}}"><a href="{{$.Base}}/exercise/{{.Kind}}/{{.Id}}">{{date .Date}} {{.Name}}</a></li>
	{{end}}
</ul>
{{else}}
<p>No exercise data yet.</p>
{{end}}
{{template "footer" .}}{{end}}`

const detailHTML = `
{{define "detail"}}{{template "header" .}}
<div class="single-{{.Kind}}">
<h2 class="title text-center">History</h2>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<div class="single-exercise d-flex flex-column align-items-center text-center">
{{with .Cardio}}
	<div class="cardio-div">
		<p><span>Date: </span> {{.Date}}</p>
		{{if $.Editing}}
		<form class="single-exercise d-flex flex-column" method="post" action="{{$.Base}}/exercise/{{$.Kind}}/{{$.ID}}">
			{{$.CSRF}}
			<label>Name: </label>
			<input class="input" type="text" id="updatedName" name="name" value="{{$.Form.Name}}">
			<label>Distance: </label>
			<input class="input" type="text" id="updatedDistance" name="distance" value="{{$.Form.Distance}}">
			<label>Duration: </label>
			<input class="input" type="text" id="updatedDuration" name="duration" value="{{$.Form.Duration}}">
			<button class="update-btn" type="submit">Save Changes</button>
		</form>
		{{else}}
		<p><span>Name: </span> {{.Name}}</p>
		<p><span>Distance: </span> {{num .Distance}} miles</p>
		<p><span>Duration: </span> {{num .Duration}} minutes</p>
		{{end}}
	</div>
{{end}}
{{with .Resistance}}
	<div class="resistance-div">
		<p><span>Date: </span> {{.Date}}</p>
		{{if $.Editing}}
		<form class="single-exercise d-flex flex-column" method="post" action="{{$.Base}}/exercise/{{$.Kind}}/{{$.ID}}">
			{{$.CSRF}}
			<label>Name:</label>
			<input class="input" type="text" id="updatedName" name="name" value="{{$.Form.Name}}">
			<label>Weight: </label>
			<input class="input" type="text" id="updatedWeight" name="weight" value="{{$.Form.Weight}}">
			<label>Sets: </label>
			<input class="input" type="text" id="updatedSets" name="sets" value="{{$.Form.Sets}}">
			<label>Reps: </label>
			<input class="input" type="text" id="updatedReps" name="reps" value="{{$.Form.Reps}}">
			<button class="update-btn" type="submit">Save Changes</button>
		</form>
		{{else}}
		<p><span>Name: </span> {{.Name}}</p>
		<p><span>Weight: </span> {{num .Weight}} lbs</p>
		<p><span>Sets: </span> {{.Sets}}</p>
		<p><span>Reps: </span> {{.Reps}}</p>
		{{end}}
	</div>
{{end}}
	<a class="delete-btn" href="{{.Base}}/exercise/{{.Kind}}/{{.ID}}/delete">Delete Exercise</a>
	{{if .Editing}}
	<a class="cancel-btn" href="{{.Base}}/exercise/{{.Kind}}/{{.ID}}">Cancel</a>
	{{else}}
	<a class="update-btn" href="{{.Base}}/exercise/{{.Kind}}/{{.ID}}?edit=1">Update Exercise</a>
	{{end}}
</div>
</div>
{{template "footer" .}}{{end}}`

const confirmHTML = `
{{define "confirm"}}{{template "header" .}}
<div class="confirm-dialog">
	<h1>{{.Dialog.Title}}</h1>
	<p>{{.Dialog.Message}}</p>
	<div class="confirm-dialog-buttons">
	{{range .Dialog.Actions}}
		{{if eq .Label "Cancel"}}
		<a class="cancel-btn" href="{{$.Back}}">{{.Label}}</a>
		{{else}}
		<form method="post" action="{{$.Action}}">
			{{$.CSRF}}
			<button type="submit" name="action" value="{{.Label}}">{{.Label}}</button>
		</form>
		{{end}}
	{{end}}
	</div>
</div>
{{template "footer" .}}{{end}}`
