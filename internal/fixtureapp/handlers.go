package fixtureapp

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

func (a *App) showRegister(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "register.html", pageData{Title: "Register"})
}

// register accepts the same email more than once, so a double-clicked
// submit lands on the request list like a single click.
func (a *App) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	reg := registrationFromRequest(r)
	if errs := a.validateRegistration(reg); errs != nil {
		a.render(w, http.StatusUnprocessableEntity, "register.html", pageData{
			Title:  "Register",
			Form:   reg,
			Errors: errs,
		})
		return
	}

	a.accounts.Register(reg)
	log.Printf("[fixtureapp] Registered %s (%s)", reg.Email, reg.Company)
	a.signIn(w, r, reg.Email)
}

func (a *App) showLogin(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "login.html", pageData{Title: "Login"})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	if err := a.accounts.Authenticate(email, r.PostFormValue("password")); err != nil {
		a.render(w, http.StatusUnauthorized, "login.html", pageData{
			Title: "Login",
			Email: email,
			Error: "Invalid email or password.",
		})
		return
	}
	a.signIn(w, r, email)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		a.accounts.EndSession(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) listRequests(w http.ResponseWriter, r *http.Request, user string) {
	profile, _ := a.accounts.Profile(user)
	a.render(w, http.StatusOK, "list.html", pageData{
		Title:    "Transport requests",
		User:     user,
		Profile:  profile,
		Requests: a.requests.List(user),
	})
}

func (a *App) showNewRequest(w http.ResponseWriter, r *http.Request, user string) {
	a.render(w, http.StatusOK, "new.html", a.newRequestData(user, RequestInput{}, ""))
}

func (a *App) createRequest(w http.ResponseWriter, r *http.Request, user string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := RequestInput{
		PickupType:      r.PostFormValue("pickupType"),
		PickupEarliest:  r.PostFormValue("pickupEarliest"),
		PickupLatest:    r.PostFormValue("pickupLatest"),
		PickupCity:      r.PostFormValue("waypoints[0].city"),
		PickupCountry:   r.PostFormValue("pickupCountry"),
		DeliveryLatest:  r.PostFormValue("deliveryLatest"),
		DeliveryCity:    r.PostFormValue("waypoints[1].city"),
		DeliveryCountry: r.PostFormValue("deliveryCountry"),
		CarrierIDs:      r.PostForm["carrier"],
	}

	req, err := a.requests.Create(in, user)
	if err != nil {
		log.Printf("[fixtureapp] Rejected request from %s: %v", user, err)
		a.render(w, http.StatusUnprocessableEntity, "new.html", a.newRequestData(user, in, err.Error()))
		return
	}

	log.Printf("[fixtureapp] Request %s sent by %s: %s -> %s", req.Label(), user, req.PickupCity, req.DeliveryCity)
	http.Redirect(w, r, fmt.Sprintf("/request/view/%d", req.ID), http.StatusSeeOther)
}

func (a *App) newRequestData(user string, in RequestInput, msg string) pageData {
	return pageData{
		Title:     "New transport request",
		User:      user,
		Input:     in,
		Error:     msg,
		Carriers:  a.carriers,
		Countries: a.countries,
	}
}

func (a *App) viewRequest(w http.ResponseWriter, r *http.Request, user string) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	req, err := a.requests.Get(id, user)
	if errors.Is(err, ErrRequestNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load request", http.StatusInternalServerError)
		return
	}
	a.render(w, http.StatusOK, "view.html", pageData{
		Title:    "Request " + req.Label(),
		User:     user,
		Request:  req,
		Carriers: a.carriers,
	})
}

func (a *App) cancelRequest(w http.ResponseWriter, r *http.Request, user string) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	err = a.requests.Cancel(id, user)
	switch {
	case errors.Is(err, ErrRequestNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, ErrInvalidStatusTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Failed to cancel request", http.StatusInternalServerError)
		return
	}
	log.Printf("[fixtureapp] Request #%d cancelled by %s", id, user)
	http.Redirect(w, r, fmt.Sprintf("/request/view/%d", id), http.StatusSeeOther)
}
