package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"rjokes/database"
	"rjokes/logger"
	"rjokes/web/entity"
	"rjokes/web/service"
	"rjokes/web/session"

	"github.com/gin-gonic/gin"
)

const (
	minJokeNameLen    = 3
	minJokeContentLen = 10
)

// JokeForm represents a joke submission.
type JokeForm struct {
	Name    string `json:"name" form:"name"`
	Content string `json:"content" form:"content"`
}

// JokeController handles browsing and submitting jokes.
type JokeController struct {
	BaseController

	jokeService service.JokeService
}

// NewJokeController creates a new JokeController and initializes its routes.
func NewJokeController(g *gin.RouterGroup) *JokeController {
	a := &JokeController{}
	a.initRouter(g)
	return a
}

func (a *JokeController) initRouter(g *gin.RouterGroup) {
	g.GET("/jokes", a.jokes)
	g.GET("/jokes/new", a.checkLogin, a.newJokePage)
	g.POST("/jokes/new", a.checkLogin, a.createJoke)
	g.GET("/jokes/:id", a.joke)
}

// jokes renders the jokes layout: current user, the recent list, and a
// random pick. Anyone may browse, logged in or not.
func (a *JokeController) jokes(c *gin.Context) {
	user, err := session.GetUser(c)
	if errors.Is(err, session.ErrStale) {
		c.Redirect(http.StatusFound, "/login")
		return
	} else if err != nil {
		logger.Error("resolve session user failed:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}

	items, err := a.jokeService.ListRecent(service.RecentJokesLimit)
	if err != nil {
		logger.Error("list recent jokes failed:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}

	randomJoke, err := a.jokeService.Random()
	if database.IsNotFound(err) {
		randomJoke = nil
	} else if err != nil {
		logger.Error("random joke failed:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}

	if isAjax(c) {
		jsonObj(c, gin.H{"user": user, "jokeListItems": items, "randomJoke": randomJoke}, nil)
		return
	}
	html(c, "jokes.html", "Jokes", gin.H{
		"user":          user,
		"jokeListItems": items,
		"randomJoke":    randomJoke,
	})
}

// joke renders one joke by id; an unknown id is a 404.
func (a *JokeController) joke(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		a.jokeNotFound(c)
		return
	}

	joke, err := a.jokeService.GetById(id)
	if database.IsNotFound(err) {
		a.jokeNotFound(c)
		return
	} else if err != nil {
		logger.Error("get joke failed:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}

	if isAjax(c) {
		jsonObj(c, joke, nil)
		return
	}
	html(c, "joke.html", joke.Name, gin.H{"joke": joke})
}

func (a *JokeController) jokeNotFound(c *gin.Context) {
	if isAjax(c) {
		pureJsonMsg(c, http.StatusNotFound, false, "Joke not found")
		return
	}
	htmlStatus(c, http.StatusNotFound, "error.html", "Not found", gin.H{"message": "Joke not found"})
}

// newJokePage renders the submission form. checkLogin has already bounced
// anonymous visitors.
func (a *JokeController) newJokePage(c *gin.Context) {
	html(c, "joke_new.html", "Add a joke", gin.H{"form": entity.NewFormState()})
}

// createJoke validates the submission and stores it under the session user.
func (a *JokeController) createJoke(c *gin.Context) {
	userId, _ := session.GetUserId(c)

	var form JokeForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "Invalid form data")
		return
	}

	state := entity.NewFormState()
	state.Fields["name"] = form.Name
	state.Fields["content"] = form.Content
	if len(form.Name) < minJokeNameLen {
		state.FieldErrors["name"] = fmt.Sprintf("Name must be at least %d characters", minJokeNameLen)
	}
	if len(form.Content) < minJokeContentLen {
		state.FieldErrors["content"] = fmt.Sprintf("Content must be at least %d characters", minJokeContentLen)
	}
	if state.Invalid() {
		if isAjax(c) {
			for _, msg := range state.FieldErrors {
				pureJsonMsg(c, http.StatusBadRequest, false, msg)
				return
			}
		}
		htmlStatus(c, http.StatusBadRequest, "joke_new.html", "Add a joke", gin.H{"form": state})
		return
	}

	id, err := a.jokeService.Create(form.Name, form.Content, userId)
	if database.IsForeignKeyViolated(err) {
		// The session user was deleted underneath us; force logout.
		_ = session.ClearSession(c)
		c.Redirect(http.StatusFound, "/login")
		return
	} else if err != nil {
		logger.Error("create joke failed:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}

	if isAjax(c) {
		jsonObj(c, gin.H{"id": id}, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/jokes/%d", id))
}
