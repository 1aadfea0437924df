package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"text/template"

	"rjokes/config"
	"rjokes/logger"
	"rjokes/web/entity"
	"rjokes/web/service"
	"rjokes/web/session"

	"github.com/gin-gonic/gin"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// Login modes selected per submission. A missing or unknown mode is a
// validation error, not a default.
const (
	loginTypeLogin    = "login"
	loginTypeRegister = "register"
)

// LoginForm represents the combined login/registration submission.
type LoginForm struct {
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	RedirectTo string `json:"redirectTo" form:"redirectTo"`
	LoginType  string `json:"loginType" form:"loginType"`
}

// IndexController handles the home page and the login-related routes.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/logout", a.logoutRedirect)
	g.POST("/logout", a.logout)
	if config.IsDebug() {
		g.GET("/logs", a.logs)
	}
}

// logs exposes the tail of the in-memory log buffer. Only registered
// while debugging.
func (a *IndexController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count < 1 {
		count = 50
	}
	level := c.DefaultQuery("level", "DEBUG")
	jsonObj(c, logger.GetLogs(count, level), nil)
}

// index handles the home page, showing the current user when logged in.
func (a *IndexController) index(c *gin.Context) {
	user, err := session.GetUser(c)
	if errors.Is(err, session.ErrStale) {
		c.Redirect(http.StatusFound, "/login")
		return
	} else if err != nil {
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}
	html(c, "index.html", "Jokes", gin.H{"user": user})
}

// loginPage renders the login/registration form, preserving the return
// target passed via the redirectTo query parameter.
func (a *IndexController) loginPage(c *gin.Context) {
	form := entity.NewFormState()
	form.Fields["redirectTo"] = c.DefaultQuery("redirectTo", "/")
	form.Fields["loginType"] = loginTypeLogin
	html(c, "login.html", "Login", gin.H{"form": form})
}

// login handles both authentication and registration, selected by the
// loginType field.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "Invalid form data")
		return
	}

	state := a.validateLoginForm(&form)
	if state.Invalid() {
		a.loginFailure(c, state)
		return
	}

	safeUser := template.HTMLEscapeString(form.Username)

	switch form.LoginType {
	case loginTypeLogin:
		user, err := a.userService.FindByLogin(form.Username, form.Password)
		if errors.Is(err, service.ErrBadCredentials) {
			logger.Warningf("failed login for %q, IP: %s", safeUser, getRemoteIp(c))
			state.FormError = "Username/Password is incorrect"
			a.loginFailure(c, state)
			return
		} else if err != nil {
			logger.Error("login lookup failed:", err)
			htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
			return
		}
		a.loginSuccess(c, user.Id, form.RedirectTo)
		logger.Infof("%s logged in successfully, IP: %s", safeUser, getRemoteIp(c))

	case loginTypeRegister:
		user, err := a.userService.Register(form.Username, form.Password)
		if errors.Is(err, service.ErrUsernameTaken) {
			state.FormError = fmt.Sprintf("User with username %s already exists", form.Username)
			a.loginFailure(c, state)
			return
		} else if err != nil {
			logger.Error("registration failed:", err)
			htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
			return
		}
		a.loginSuccess(c, user.Id, form.RedirectTo)
		logger.Infof("%s registered, IP: %s", safeUser, getRemoteIp(c))
	}
}

// validateLoginForm applies the field rules shared by both modes.
func (a *IndexController) validateLoginForm(form *LoginForm) *entity.FormState {
	state := entity.NewFormState()
	state.Fields["username"] = form.Username
	state.Fields["redirectTo"] = form.RedirectTo
	state.Fields["loginType"] = form.LoginType

	if len(form.Username) < minUsernameLen {
		state.FieldErrors["username"] = fmt.Sprintf("Username must be at least %d characters", minUsernameLen)
	}
	if len(form.Password) < minPasswordLen {
		state.FieldErrors["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLen)
	}
	if form.RedirectTo == "" {
		form.RedirectTo = "/"
		state.Fields["redirectTo"] = form.RedirectTo
	}
	if !strings.HasPrefix(form.RedirectTo, "/") {
		state.FieldErrors["redirectTo"] = "Redirect target must be a local path"
	}
	if form.LoginType != loginTypeLogin && form.LoginType != loginTypeRegister {
		state.FormError = "Login type invalid"
	}
	return state
}

func (a *IndexController) loginSuccess(c *gin.Context, userId int, redirectTo string) {
	if err := session.SetLoginUser(c, userId); err != nil {
		logger.Warning("Unable to save session:", err)
		htmlStatus(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"message": "Something went wrong"})
		return
	}
	if isAjax(c) {
		jsonObj(c, gin.H{"redirectTo": redirectTo}, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// loginFailure re-renders the form with its validation state. Failed
// submissions come back as 400s, matching what forms and ajax callers
// both expect.
func (a *IndexController) loginFailure(c *gin.Context, state *entity.FormState) {
	if isAjax(c) {
		msg := state.FormError
		if msg == "" {
			for _, fieldMsg := range state.FieldErrors {
				msg = fieldMsg
				break
			}
		}
		pureJsonMsg(c, http.StatusBadRequest, false, msg)
		return
	}
	htmlStatus(c, http.StatusBadRequest, "login.html", "Login", gin.H{"form": state})
}

// logoutRedirect sends stray GETs on the logout URL back home without
// touching the session.
func (a *IndexController) logoutRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// logout destroys the session and lands on the login page.
func (a *IndexController) logout(c *gin.Context) {
	if id, ok := session.GetUserId(c); ok {
		logger.Infof("user %d logged out", id)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	if isAjax(c) {
		jsonMsg(c, "Logged out", nil)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}
