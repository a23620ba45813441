package application

import (
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

// Labels shared between the menu and its tests.
const (
	labelUpdate = "Update Card List"
	labelSort   = "Sort Card List"
	labelRuns   = "Runs ->"
	labelRecent = "Recent Runs"
	labelStatus = "Run Status"
	labelBack   = "Back"
	labelQuit   = "Quit"
)

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == labelBack {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(actions *CubeActions) *Menu {

	/* Submenus */
	runs := &Menu{
		Title: "Runs",
		Items: []MenuItem{
			{Label: labelRecent, Action: actions.RecentRuns},
			{Label: labelStatus, Action: actions.RunStatus},
			{Label: labelBack},
		},
	}

	/* Root Menu */
	root := &Menu{
		Title: "Sheet Scripts",
		Items: []MenuItem{
			{Label: labelUpdate, Action: actions.UpdateCardList},
			{Label: labelSort, Action: actions.SortCardList},
			{Label: labelRuns, Submenu: runs},
			{Label: labelQuit, Action: func() tea.Cmd { return tea.Quit }},
		},
	}

	linkParents(root, nil)

	return root
}
