// Package delivery sequences rendering, template substitution, and the
// mail transport per target person, in bulk or interactively.
package delivery

import (
	"fmt"
	"io"
	"strings"

	"github.com/action-reminders/reminders-go/pkg/history"
	"github.com/action-reminders/reminders-go/pkg/mail"
	"github.com/action-reminders/reminders-go/pkg/reminders"
	"github.com/action-reminders/reminders-go/pkg/render"
	"github.com/action-reminders/reminders-go/utils"
)

// Interactive menu choices.
const (
	ChoiceSkip  = "skip"
	ChoiceEmail = "email"
	ChoiceShow  = "show"
	ChoiceExit  = "exit"
)

// Orchestrator walks a grouping and hands composed reminder messages to
// the mail transport. One session is opened per run and released on every
// exit path, including an early interactive exit and any send failure.
type Orchestrator struct {
	Engine  *reminders.Engine
	From    string
	Subject string
	CC      []string

	// Open dials a new authenticated mail session.
	Open func() (mail.Transport, error)
	// Prompt performs a blocking read of one operator choice.
	Prompt func(prompt string) (string, error)
	// Out receives operator-facing output.
	Out io.Writer

	// History, when non-nil, records each delivered reminder under RunID.
	History *history.Store
	RunID   string

	Logger *utils.Logger
}

// SendAll emails every user in the grouping. The session is opened once
// before the first send; a transport failure is not retried and aborts the
// remaining sends, but the session is still released.
func (o *Orchestrator) SendAll(groups []reminders.Group, days int) error {
	if len(groups) == 0 {
		fmt.Fprintln(o.Out, "No user actions to process")
		return nil
	}

	fmt.Fprintf(o.Out, "Sending emails about items due in the next %d days:\n", days)
	for _, group := range groups {
		fmt.Fprintf(o.Out, "    %s: %d\n", group.User.String(o.Engine.UserField), len(group.Actions))
	}

	session, err := o.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	for _, group := range groups {
		if err := o.send(session, group, days); err != nil {
			return err
		}
	}
	return nil
}

// Interactive walks the grouping, prompting the operator for what to do
// with each user. The mail session is opened lazily on the first "email"
// choice and reused. "exit" leaves the remaining users unprocessed; that
// is an operator decision, not an error.
func (o *Orchestrator) Interactive(groups []reminders.Group, days int) (err error) {
	if len(groups) == 0 {
		fmt.Fprintln(o.Out, "No user actions to process")
		return nil
	}

	var session mail.Transport
	defer func() {
		if session != nil {
			if closeErr := session.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}()

	for _, group := range groups {
		choice, promptErr := o.promptChoice(group)
		if promptErr != nil {
			return promptErr
		}
		if choice == ChoiceExit {
			break
		}
		if choice == ChoiceEmail {
			if session == nil {
				session, err = o.Open()
				if err != nil {
					return err
				}
			}
			if err := o.send(session, group, days); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(o.Out, "No more users")
	return nil
}

// promptChoice shows the menu for one user and reads choices until a
// decisive one arrives. "show" renders the plain-text table and reprompts.
func (o *Orchestrator) promptChoice(group reminders.Group) (string, error) {
	uname := group.User.String(o.Engine.UserField)
	fmt.Fprintf(o.Out, "%s: %d\n", uname, len(group.Actions))

	choice := ""
	for choice != ChoiceSkip && choice != ChoiceEmail && choice != ChoiceExit {
		fmt.Fprintf(o.Out, "What should be done with %s's action?\n", uname)
		if choice == "" {
			fmt.Fprintf(o.Out, "  %s - skip sending email to this user\n", ChoiceSkip)
			fmt.Fprintf(o.Out, "  %s - send email to %s\n", ChoiceEmail, group.User.String(o.Engine.EmailField))
			fmt.Fprintf(o.Out, "  %s - show the actions (another choice allowed)\n", ChoiceShow)
			fmt.Fprintf(o.Out, "  %s - do NOT send anymore emails to anyone\n", ChoiceExit)
		}

		answer, err := o.Prompt(fmt.Sprintf("Choose %s, %s, %s, or %s: ",
			ChoiceSkip, ChoiceEmail, ChoiceShow, ChoiceExit))
		if err != nil {
			return "", err
		}
		choice = strings.ToLower(strings.TrimSpace(answer))

		if choice == ChoiceShow {
			table, err := render.Table(group.Actions, o.Engine.Columns, o.Engine.Align, render.FormatText)
			if err != nil {
				return "", err
			}
			fmt.Fprintln(o.Out, table)
		}
	}
	return choice, nil
}

// send composes and delivers one user's reminder. Template substitution is
// strict: an unknown placeholder aborts with no partial message sent.
func (o *Orchestrator) send(session mail.Transport, group reminders.Group, days int) error {
	intro, err := reminders.Substitute(o.Engine.Preamble, group.User, days)
	if err != nil {
		return err
	}
	closing, err := reminders.Substitute(o.Engine.Close, group.User, days)
	if err != nil {
		return err
	}
	table, err := render.Table(group.Actions, o.Engine.Columns, o.Engine.Align, render.FormatHTML)
	if err != nil {
		return err
	}

	toUser := group.User.String(o.Engine.EmailField)
	msg, err := mail.Message(o.Subject, o.From, toUser, o.CC, intro+table+closing)
	if err != nil {
		return err
	}

	to := append([]string{toUser}, o.CC...)
	if err := session.Send(o.From, to, msg); err != nil {
		return err
	}

	uname := group.User.String(o.Engine.UserField)
	if o.History != nil {
		if err := o.History.RecordDelivery(o.RunID, uname, toUser, len(group.Actions)); err != nil {
			o.Logger.Warn("Failed to record delivery", utils.String("user", uname), utils.Error(err))
		}
	}
	o.Logger.Info("Reminder sent", utils.String("user", uname), utils.Int("actions", len(group.Actions)))
	return nil
}
