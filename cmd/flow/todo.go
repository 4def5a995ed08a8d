package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/flowstate/internal/editor"
	"github.com/amonks/flowstate/todo"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the todo list",
}

// todo add
var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo to the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoAdd,
}

var todoAddPriority string

// todo list
var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Args:  cobra.NoArgs,
	RunE:  runTodoList,
}

var (
	todoListFilter string
	todoListSort   string
	todoListSearch string
	todoListJSON   bool
)

// todo toggle
var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Flip the completion state of one or more todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoToggle,
}

// todo edit
var todoEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a todo with flags or in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoEdit,
}

var (
	todoEditTitle    string
	todoEditPriority string
	todoEditEditor   bool
)

// todo delete
var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoDelete,
}

// todo show
var todoShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoShow,
}

var todoShowJSON bool

// todo stats
var todoStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the todo list",
	Args:  cobra.NoArgs,
	RunE:  runTodoStats,
}

var todoStatsJSON bool

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoAddCmd, todoListCmd, todoToggleCmd, todoEditCmd, todoDeleteCmd, todoShowCmd, todoStatsCmd)

	todoAddCmd.Flags().StringVarP(&todoAddPriority, "priority", "p", string(todo.DefaultPriority), "Priority (high, medium, low)")

	todoListCmd.Flags().StringVar(&todoListFilter, "filter", string(todo.CompletionAll), "Completion filter (all, active, completed)")
	todoListCmd.Flags().StringVar(&todoListSort, "sort", "", "Sort order (date, priority, alphabetical)")
	todoListCmd.Flags().StringVar(&todoListSearch, "search", "", "Filter by title substring")
	todoListCmd.Flags().BoolVar(&todoListJSON, "json", false, "Output as JSON")

	todoEditCmd.Flags().StringVar(&todoEditTitle, "title", "", "New title")
	todoEditCmd.Flags().StringVarP(&todoEditPriority, "priority", "p", "", "New priority (high, medium, low)")
	todoEditCmd.Flags().BoolVarP(&todoEditEditor, "edit", "e", false, "Open $EDITOR (default when interactive and no flags are given)")

	todoShowCmd.Flags().BoolVar(&todoShowJSON, "json", false, "Output as JSON")
	todoStatsCmd.Flags().BoolVar(&todoStatsJSON, "json", false, "Output as JSON")

	addPriorityFlagAliases(todoAddCmd, todoEditCmd)
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	priority, err := todo.ParsePriority(todoAddPriority)
	if err != nil {
		return err
	}

	store, err := openTodoStore()
	if err != nil {
		return err
	}

	created, err := store.Create(args[0], priority)
	ok, err := mutationError(err)
	if !ok {
		return err
	}

	highlight := todoHighlighter(store)
	fmt.Fprintf(cmd.OutOrStdout(), "Created todo %s: %s\n", highlight(created.ID), created.Title)
	return err
}

func runTodoList(cmd *cobra.Command, args []string) error {
	filter, err := todoListFilterFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openTodoStore()
	if err != nil {
		return err
	}

	todos, err := store.List(filter)
	if err != nil {
		return err
	}

	if todoListJSON {
		return encodeJSON(cmd.OutOrStdout(), todos)
	}

	out := cmd.OutOrStdout()
	if len(todos) == 0 {
		fmt.Fprintln(out, todoEmptyListMessage(store.Len(), filter))
		return nil
	}
	fmt.Fprint(out, formatTodoTable(todos, store.IDIndex().PrefixLengths(), highlightID, time.Now()))
	return nil
}

func todoListFilterFromFlags(cmd *cobra.Command) (todo.Filter, error) {
	completion, err := todo.ParseCompletion(todoListFilter)
	if err != nil {
		return todo.Filter{}, err
	}

	sortValue := current.cfg.Todo.Sort
	if cmd.Flags().Changed("sort") {
		sortValue = todoListSort
	}
	sortKey, err := todo.ParseSortKey(sortValue)
	if err != nil {
		return todo.Filter{}, err
	}

	return todo.Filter{
		Completion: completion,
		Search:     todoListSearch,
		Sort:       sortKey,
		Locale:     current.cfg.Locale(),
	}, nil
}

func runTodoToggle(cmd *cobra.Command, args []string) error {
	store, err := openTodoStore()
	if err != nil {
		return err
	}

	var warning error
	for _, prefix := range args {
		item, err := store.Resolve(prefix)
		if err != nil {
			return err
		}
		toggled, err := store.ToggleCompleted(item.ID)
		ok, err := mutationError(err)
		if !ok {
			return err
		}
		if err != nil {
			warning = err
		}

		verb := "Reopened"
		if toggled.Completed {
			verb = "Completed"
		}
		highlight := todoHighlighter(store)
		fmt.Fprintf(cmd.OutOrStdout(), "%s todo %s: %s\n", verb, highlight(toggled.ID), toggled.Title)
	}
	return warning
}

func runTodoEdit(cmd *cobra.Command, args []string) error {
	hasFlags := hasChangedFlags(cmd, "title", "priority")
	useEditor := todoEditEditor || (!hasFlags && editor.IsInteractive())
	if !hasFlags && !useEditor {
		return fmt.Errorf("nothing to change: pass --title, --priority, or --edit")
	}

	var patch todo.Patch
	if cmd.Flags().Changed("title") {
		patch.Title = &todoEditTitle
	}
	if cmd.Flags().Changed("priority") {
		priority, err := todo.ParsePriority(todoEditPriority)
		if err != nil {
			return err
		}
		patch.Priority = &priority
	}

	store, err := openTodoStore()
	if err != nil {
		return err
	}
	item, err := store.Resolve(args[0])
	if err != nil {
		return err
	}

	if useEditor {
		if patch.Title != nil {
			item.Title = *patch.Title
		}
		if patch.Priority != nil {
			item.Priority = *patch.Priority
		}
		parsed, err := editor.EditTodo(item)
		if err != nil {
			return err
		}
		latest, err := store.Get(item.ID)
		if err != nil {
			return err
		}
		if parsed.Empty(latest) {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			return nil
		}
		patch = parsed.Patch(latest)
	}

	updated, err := store.Update(item.ID, patch)
	ok, err := mutationError(err)
	if !ok {
		return err
	}

	highlight := todoHighlighter(store)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %s: %s\n", highlight(updated.ID), updated.Title)
	return err
}

func runTodoDelete(cmd *cobra.Command, args []string) error {
	store, err := openTodoStore()
	if err != nil {
		return err
	}

	var warning error
	for _, prefix := range args {
		item, err := store.Resolve(prefix)
		if err != nil {
			return err
		}
		ok, err := mutationError(store.Remove(item.ID))
		if !ok {
			return err
		}
		if err != nil {
			warning = err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo %s: %s\n", item.ID, item.Title)
	}
	return warning
}

func runTodoShow(cmd *cobra.Command, args []string) error {
	store, err := openTodoStore()
	if err != nil {
		return err
	}

	items := make([]todo.Todo, 0, len(args))
	for _, prefix := range args {
		item, err := store.Resolve(prefix)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if todoShowJSON {
		return encodeJSON(cmd.OutOrStdout(), items)
	}

	highlight := todoHighlighter(store)
	out := cmd.OutOrStdout()
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, formatTodoDetail(item, highlight))
	}
	return nil
}

func runTodoStats(cmd *cobra.Command, args []string) error {
	store, err := openTodoStore()
	if err != nil {
		return err
	}

	stats := store.Stats()
	if todoStatsJSON {
		return encodeJSON(cmd.OutOrStdout(), stats)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTodoStats(stats))
	return nil
}

func todoHighlighter(store *todo.Store) func(string) string {
	return logHighlighter(store.IDIndex().PrefixLengths(), highlightID)
}
