package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/flowstate/internal/predicate"
	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/amonks/flowstate/user"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user directory",
}

// user add
var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Args:  cobra.NoArgs,
	RunE:  runUserAdd,
}

var (
	userAddEmail      string
	userAddName       string
	userAddRole       string
	userAddDepartment string
	userAddSkills     []string
	userAddAvatar     string
)

// user list
var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var (
	userListSearch     string
	userListRole       string
	userListStatus     string
	userListDepartment string
	userListSkills     []string
	userListSort       string
	userListJSON       bool
)

// user update
var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserUpdate,
}

var (
	userUpdateEmail      string
	userUpdateName       string
	userUpdateRole       string
	userUpdateStatus     string
	userUpdateDepartment string
	userUpdateSkills     []string
	userUpdateAvatar     string
)

// user delete
var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUserDelete,
}

// user show
var userShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about users",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUserShow,
}

var userShowJSON bool

// user stats
var userStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the user directory",
	Args:  cobra.NoArgs,
	RunE:  runUserStats,
}

var userStatsJSON bool

// user count
var userCountCmd = &cobra.Command{
	Use:   "count <expression>",
	Short: "Count users matching an expression",
	Long: `Count users matching a boolean expression.

Expressions see the variables id, email, name, role, status, department,
skills, avatar, joinedAt and lastActiveAt, plus containsFold(s, substr).
Use --lang cel for CEL syntax; the default is expr.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserCount,
}

var userCountLang string

// user departments
var userDepartmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List distinct departments",
	Args:  cobra.NoArgs,
	RunE:  runUserDepartments,
}

// user skills
var userSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List distinct skills",
	Args:  cobra.NoArgs,
	RunE:  runUserSkills,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd, userListCmd, userUpdateCmd, userDeleteCmd, userShowCmd, userStatsCmd,
		userCountCmd, userDepartmentsCmd, userSkillsCmd)

	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "Email address (unique)")
	userAddCmd.Flags().StringVar(&userAddName, "name", "", "Display name")
	userAddCmd.Flags().StringVar(&userAddRole, "role", string(user.RoleViewer), "Role (admin, editor, viewer)")
	userAddCmd.Flags().StringVar(&userAddDepartment, "department", "", "Department")
	userAddCmd.Flags().StringArrayVar(&userAddSkills, "skill", nil, "Skill (repeatable)")
	userAddCmd.Flags().StringVar(&userAddAvatar, "avatar", "", "Avatar URL")

	userListCmd.Flags().StringVar(&userListSearch, "search", "", "Filter by name or email substring")
	userListCmd.Flags().StringVar(&userListRole, "role", user.All, "Filter by role")
	userListCmd.Flags().StringVar(&userListStatus, "status", user.All, "Filter by status")
	userListCmd.Flags().StringVar(&userListDepartment, "department", user.All, "Filter by department")
	userListCmd.Flags().StringArrayVar(&userListSkills, "skill", nil, "Filter by skill (repeatable, any matches)")
	userListCmd.Flags().StringVar(&userListSort, "sort", "", "Sort order (name, joined, last-active)")
	userListCmd.Flags().BoolVar(&userListJSON, "json", false, "Output as JSON")

	userUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "New email address")
	userUpdateCmd.Flags().StringVar(&userUpdateName, "name", "", "New display name")
	userUpdateCmd.Flags().StringVar(&userUpdateRole, "role", "", "New role")
	userUpdateCmd.Flags().StringVar(&userUpdateStatus, "status", "", "New status (active, inactive, suspended)")
	userUpdateCmd.Flags().StringVar(&userUpdateDepartment, "department", "", "New department")
	userUpdateCmd.Flags().StringArrayVar(&userUpdateSkills, "skill", nil, "Replace skills (repeatable)")
	userUpdateCmd.Flags().StringVar(&userUpdateAvatar, "avatar", "", "New avatar URL")

	userShowCmd.Flags().BoolVar(&userShowJSON, "json", false, "Output as JSON")
	userStatsCmd.Flags().BoolVar(&userStatsJSON, "json", false, "Output as JSON")
	userCountCmd.Flags().StringVar(&userCountLang, "lang", string(predicate.LanguageExpr), "Expression language (expr, cel)")

	addUserFlagAliases(userAddCmd, userListCmd, userUpdateCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}

	created, err := store.Create(user.Draft{
		Email:      userAddEmail,
		Name:       userAddName,
		Role:       user.Role(internalstrings.NormalizeLowerTrimSpace(userAddRole)),
		Department: userAddDepartment,
		Skills:     userAddSkills,
		Avatar:     userAddAvatar,
	})
	ok, err := mutationError(err)
	if !ok {
		return err
	}

	highlight := userHighlighter(store)
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s: %s <%s>\n", highlight(created.ID), created.Name, created.Email)
	return err
}

func runUserList(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}

	view := user.NewView(store)
	defer view.Close()
	view.SetFilters(userListFilterPatch(cmd))

	users, err := view.Users()
	if err != nil {
		return err
	}

	if userListJSON {
		return encodeJSON(cmd.OutOrStdout(), users)
	}

	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintln(out, userEmptyListMessage(store.Len(), view.Filters()))
		return nil
	}
	fmt.Fprint(out, formatUserTable(users, store.PrefixLengths(), highlightID, time.Now()))
	return nil
}

func userListFilterPatch(cmd *cobra.Command) user.FilterPatch {
	sortValue := current.cfg.User.Sort
	if cmd.Flags().Changed("sort") {
		sortValue = userListSort
	}
	sortKey := user.SortKey(internalstrings.NormalizeLowerTrimSpace(sortValue))
	locale := current.cfg.Locale()

	return user.FilterPatch{
		Search:     &userListSearch,
		Role:       &userListRole,
		Status:     &userListStatus,
		Department: &userListDepartment,
		Skills:     &userListSkills,
		Sort:       &sortKey,
		Locale:     &locale,
	}
}

func runUserUpdate(cmd *cobra.Command, args []string) error {
	if !hasChangedFlags(cmd, "email", "name", "role", "status", "department", "skill", "avatar") {
		return fmt.Errorf("nothing to change: pass at least one field flag")
	}

	var patch user.Patch
	if cmd.Flags().Changed("email") {
		patch.Email = &userUpdateEmail
	}
	if cmd.Flags().Changed("name") {
		patch.Name = &userUpdateName
	}
	if cmd.Flags().Changed("role") {
		role := user.Role(internalstrings.NormalizeLowerTrimSpace(userUpdateRole))
		patch.Role = &role
	}
	if cmd.Flags().Changed("status") {
		status := user.Status(internalstrings.NormalizeLowerTrimSpace(userUpdateStatus))
		patch.Status = &status
	}
	if cmd.Flags().Changed("department") {
		patch.Department = &userUpdateDepartment
	}
	if cmd.Flags().Changed("skill") {
		patch.Skills = &userUpdateSkills
	}
	if cmd.Flags().Changed("avatar") {
		patch.Avatar = &userUpdateAvatar
	}

	store, err := openUserStore()
	if err != nil {
		return err
	}
	existing, err := store.Resolve(args[0])
	if err != nil {
		return err
	}

	updated, err := store.Update(existing.ID, patch)
	ok, err := mutationError(err)
	if !ok {
		return err
	}

	highlight := userHighlighter(store)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s: %s <%s>\n", highlight(updated.ID), updated.Name, updated.Email)
	return err
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}

	var warning error
	for _, prefix := range args {
		existing, err := store.Resolve(prefix)
		if err != nil {
			return err
		}
		ok, err := mutationError(store.Remove(existing.ID))
		if !ok {
			return err
		}
		if err != nil {
			warning = err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s: %s <%s>\n", existing.ID, existing.Name, existing.Email)
	}
	return warning
}

func runUserShow(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}

	users := make([]user.User, 0, len(args))
	for _, prefix := range args {
		found, err := store.Resolve(prefix)
		if err != nil {
			return err
		}
		users = append(users, found)
	}

	if userShowJSON {
		return encodeJSON(cmd.OutOrStdout(), users)
	}

	highlight := userHighlighter(store)
	out := cmd.OutOrStdout()
	for i, u := range users {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, formatUserDetail(u, highlight))
	}
	return nil
}

func runUserStats(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}

	stats := store.Stats()
	if userStatsJSON {
		return encodeJSON(cmd.OutOrStdout(), stats)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatUserStats(stats))
	return nil
}

func runUserCount(cmd *cobra.Command, args []string) error {
	lang, err := predicate.ParseLanguage(userCountLang)
	if err != nil {
		return err
	}
	evaluator, err := user.NewEvaluator(lang)
	if err != nil {
		return err
	}

	store, err := openUserStore()
	if err != nil {
		return err
	}

	count, err := user.CountWhere(store.Snapshot(), evaluator, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), count)
	return nil
}

func runUserDepartments(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}
	for _, department := range store.Departments() {
		fmt.Fprintln(cmd.OutOrStdout(), department)
	}
	return nil
}

func runUserSkills(cmd *cobra.Command, args []string) error {
	store, err := openUserStore()
	if err != nil {
		return err
	}
	for _, skill := range store.Skills() {
		fmt.Fprintln(cmd.OutOrStdout(), skill)
	}
	return nil
}

func userHighlighter(store *user.Store) func(string) string {
	return logHighlighter(store.PrefixLengths(), highlightID)
}
