package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fowltyphoid/fowlmon/consult"
	"github.com/fowltyphoid/fowlmon/diseases"
	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/internal/utils"
	"github.com/fowltyphoid/fowlmon/reminders"
	"github.com/fowltyphoid/fowlmon/router"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "fowlmon",
		Short:         "Fowl Typhoid Monitor client",
		Long:          "Connects poultry farmers with veterinarians for disease reporting, consultation and reminders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newWhoamiCmd(&a),
		newRefreshCmd(&a),
		newSignupCmd(&a),
		newReportCmd(&a),
		newConsultCmd(&a),
		newRemindCmd(&a),
		newVetsCmd(&a),
		newChatCmd(&a),
		newDiseaseCmd(&a),
	)
	return root
}

func newLoginCmd(a **app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email-or-phone>",
		Short: "Sign in with an email address or phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).sessions.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			displayAppName((*a).cfg.GetAppName())
			fmt.Printf("Karibu, %s\n", displayNameOrID((*a)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).sessions.Logout(cmd.Context()); err != nil {
				// Local state is already cleared; the server-side failure is
				// informational only.
				fmt.Println("Logout completed locally")
				return nil
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := (*a).sessions
			if !s.IsLoggedIn() {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("User ID:          %s\n", s.UserID())
			if s.Email() != "" {
				fmt.Printf("Email:            %s\n", s.Email())
			}
			if s.Phone() != "" {
				fmt.Printf("Phone:            %s\n", s.Phone())
			}
			fmt.Printf("Role:             %s\n", s.Role())
			fmt.Printf("Profile complete: %t\n", s.IsProfileComplete())
			fmt.Printf("Destination:      %s\n", router.Resolve(s))
			return nil
		},
	}
}

func newRefreshCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token if it is close to expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).sessions.AutoRefreshIfNeeded(cmd.Context()); err != nil {
				if interrors.Is(err, interrors.ErrNotLoggedIn) {
					fmt.Println("Not logged in")
					return nil
				}
				return err
			}
			fmt.Println("Token OK")
			return nil
		},
	}
}

func newSignupCmd(a **app) *cobra.Command {
	var (
		email          string
		phone          string
		password       string
		role           string
		name           string
		specialization string
		location       string
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new farmer or vet account",
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata := map[string]any{
				"user_type":    role,
				"display_name": name,
			}
			if specialization != "" {
				metadata["specialization"] = specialization
			}
			if location != "" {
				metadata["location"] = location
			}

			var err error
			if email != "" {
				err = (*a).sessions.SignUpWithEmail(cmd.Context(), email, password, metadata)
			} else {
				err = (*a).sessions.SignUpWithPhone(cmd.Context(), phone, password, metadata)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Account created (%s)\n", (*a).sessions.Role())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&role, "role", "farmer", "account role (farmer or vet)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&specialization, "specialization", "", "vet specialization")
	cmd.Flags().StringVar(&location, "location", "", "location")
	_ = cmd.MarkFlagRequired("password")
	cmd.MarkFlagsOneRequired("email", "phone")
	return cmd
}

func newReportCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit and review symptom reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "submit <symptoms>",
		Short: "Submit a symptom report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := (*a).reports.Submit(cmd.Context(), (*a).sessions.UserID(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Report submitted (%s)\n", report.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List symptom reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := (*a).reports.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%v\t%s\t%s\t%s\n", idOrDash(r.ReportID), r.Status, r.SubmittedAt.Format(time.RFC3339), r.Symptoms)
			}
			return nil
		},
	})
	return cmd
}

func newConsultCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Request and answer consultations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ask <question>",
		Short: "Request a consultation from a vet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := (*a).consults.Request(cmd.Context(), (*a).sessions.UserID(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Consultation opened (%s)\n", c.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "answer <id> <answer>",
		Short: "Answer a pending consultation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid consultation id %q", args[0])
			}
			return (*a).consults.Answer(cmd.Context(), id, (*a).sessions.UserID(), args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := (*a).sessions
			var rows []consult.Consultation
			var err error
			if s.IsVet() {
				rows, err = (*a).consults.ListByVet(cmd.Context(), s.UserID())
			} else {
				rows, err = (*a).consults.ListByFarmer(cmd.Context(), s.UserID())
			}
			if err != nil {
				return err
			}
			for _, c := range rows {
				fmt.Printf("%s\t%s\t%s\n", idOrDash(c.ConsultationID), c.Status, c.Question)
			}
			return nil
		},
	})
	return cmd
}

func newRemindCmd(a **app) *cobra.Command {
	var (
		title   string
		message string
		at      string
	)
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage vaccination and treatment reminders",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			remindAt, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("invalid --at time %q, want RFC3339", at)
			}
			_, err = (*a).reminders.Create(cmd.Context(), &reminders.Reminder{
				VetID:    (*a).sessions.UserID(),
				Title:    title,
				Message:  message,
				RemindAt: remindAt,
			})
			if err != nil {
				return err
			}
			fmt.Println("Reminder scheduled")
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "reminder title")
	add.Flags().StringVar(&message, "message", "", "reminder body")
	add.Flags().StringVar(&at, "at", "", "when to remind (RFC3339)")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("at")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := (*a).reminders.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%v\t%s\t%s\n", idOrDash(r.ReminderID), r.RemindAt.Format(time.RFC3339), r.Title)
			}
			return nil
		},
	})
	return cmd
}

func newVetsCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "vets",
		Short: "List available veterinarians",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := (*a).profiles.ListAvailableVets(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range rows {
				fmt.Printf("%s\t%s\t%s\t%.0f TZS\t%.1f\n",
					v.FullName, v.Specialization, v.Location,
					utils.Value(v.ConsultationFee), utils.Value(v.Rating))
			}
			return nil
		},
	}
}

func newDiseaseCmd(a **app) *cobra.Command {
	var (
		causes     string
		symptoms   string
		treatment  string
		prevention string
		desc       string
	)
	cmd := &cobra.Command{
		Use:   "disease",
		Short: "Browse and maintain disease reference entries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all disease entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := (*a).diseases.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range rows {
				fmt.Printf("%s\t%s\t%s\n", idOrDash(d.DiseaseID), d.Name, d.Symptoms)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one disease entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid disease id %q", args[0])
			}
			d, err := (*a).diseases.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Name:        %s\n", d.Name)
			fmt.Printf("Causes:      %s\n", d.Causes)
			fmt.Printf("Symptoms:    %s\n", d.Symptoms)
			fmt.Printf("Treatment:   %s\n", d.Treatment)
			fmt.Printf("Prevention:  %s\n", d.Prevention)
			if d.Description != "" {
				fmt.Printf("Description: %s\n", d.Description)
			}
			return nil
		},
	})

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a disease entry (vets only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := (*a).diseases.Create(cmd.Context(), &diseases.DiseaseInfo{
				Name:        args[0],
				Causes:      causes,
				Symptoms:    symptoms,
				Treatment:   treatment,
				Prevention:  prevention,
				Description: desc,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Disease entry created (%s)\n", idOrDash(d.DiseaseID))
			return nil
		},
	}
	add.Flags().StringVar(&causes, "causes", "", "causative agent")
	add.Flags().StringVar(&symptoms, "symptoms", "", "observable symptoms")
	add.Flags().StringVar(&treatment, "treatment", "", "recommended treatment")
	add.Flags().StringVar(&prevention, "prevention", "", "prevention measures")
	add.Flags().StringVar(&desc, "description", "", "longer description")
	cmd.AddCommand(add)

	return cmd
}

func newChatCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Exchange locally-stored messages with a farmer or vet",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <conversation-id> <message>",
		Short: "Send a message in a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := (*a).sessions
			msg, err := (*a).messages.Append(args[0], s.UserID(), string(s.Role()), args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Sent %s\n", msg.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [conversation-id]",
		Short: "List conversations, or the messages of one conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := (*a).messages
			if len(args) == 0 {
				reader := (*a).sessions.UserID()
				for _, id := range store.Conversations() {
					fmt.Printf("%s\t%d unread\n", id, store.UnreadCount(id, reader))
				}
				return nil
			}
			for _, m := range store.Messages(args[0]) {
				fmt.Printf("%s\t%s\t%s\n", m.SentAt.Format(time.RFC3339), m.SenderRole, m.Body)
			}
			return store.MarkRead(args[0], (*a).sessions.UserID())
		},
	})

	return cmd
}

func displayNameOrID(a *app) string {
	if name := a.sessions.DisplayName(); name != "" {
		return name
	}
	return a.sessions.UserID()
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
