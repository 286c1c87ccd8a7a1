package main

import (
	"fmt"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/router"
)

// renderHooks builds the per-page render hooks. Each one only formats
// the identity and view data it is handed; none of them touch the store.
func renderHooks() router.Hooks {
	return router.Hooks{
		Home:        renderHome,
		Register:    renderRegister,
		Verify:      renderVerify,
		Login:       renderLogin,
		Profile:     renderProfile,
		Accounts:    renderAccounts,
		Departments: renderDepartments,
		Employees:   renderEmployees,
		Requests:    renderRequests,
	}
}

func renderHome(identity *models.Account, _ router.PageData) {
	fmt.Println("== Welcome ==")
	if identity == nil {
		fmt.Println("You are browsing anonymously. Try 'register' or 'login'.")
		return
	}
	fmt.Printf("Logged in as %s (%s)\n", identity.FullName(), identity.Role)
}

func renderRegister(_ *models.Account, _ router.PageData) {
	fmt.Println("== Register ==")
	fmt.Println("Run 'register' to create an account.")
}

func renderVerify(_ *models.Account, _ router.PageData) {
	fmt.Println("== Verify ==")
	fmt.Println("Run 'verify' to confirm your pending registration.")
}

func renderLogin(_ *models.Account, _ router.PageData) {
	fmt.Println("== Login ==")
	fmt.Println("Run 'login' to sign in.")
}

func renderProfile(identity *models.Account, _ router.PageData) {
	fmt.Println("== Profile ==")
	fmt.Printf("%s\nEmail: %s\nRole: %s\n", identity.FullName(), identity.Email, identity.Role)
}

func renderAccounts(_ *models.Account, data router.PageData) {
	fmt.Println("== Accounts ==")
	for _, a := range data.Accounts {
		mark := " "
		if a.Verified {
			mark = "v"
		}
		fmt.Printf("[%s] %-24s %-28s %s\n", mark, a.FullName(), a.Email, a.Role)
	}
}

func renderDepartments(_ *models.Account, data router.PageData) {
	fmt.Println("== Departments ==")
	if len(data.Departments) == 0 {
		fmt.Println("No departments.")
		return
	}
	for _, d := range data.Departments {
		fmt.Printf("%-12s %-20s %s\n", d.ID[:8], d.Name, d.Description)
	}
}

func renderEmployees(_ *models.Account, data router.PageData) {
	fmt.Println("== Employees ==")
	if len(data.Employees) == 0 {
		fmt.Println("No employees.")
		return
	}
	for _, e := range data.Employees {
		fmt.Printf("%-10s %-24s %-20s %-16s %s\n",
			e.EmployeeID, e.Name, e.Position, e.Department, e.HireDate)
	}
}

func renderRequests(_ *models.Account, data router.PageData) {
	fmt.Println("== My Requests ==")
	if len(data.Requests) == 0 {
		fmt.Println("You have no requests yet. Run 'req new' to create one.")
		return
	}
	for _, q := range data.Requests {
		fmt.Printf("%-10s %-16s %2d item(s)  %-9s %s\n",
			q.ID[:8], q.Type, len(q.Items), q.Status, q.Date)
	}
}
