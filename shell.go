package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/rules"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/store"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/trainer"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "start [category] - start a training session, optionally from a category\n")
	io.WriteString(w, "move <move> - play a move (UCI like e6d6, or SAN like Kd6)\n")
	io.WriteString(w, "hint - show the tablebase's preferred move\n")
	io.WriteString(w, "show - show the current position\n")
	io.WriteString(w, "categories - list available position categories\n")
	io.WriteString(w, "reset - abandon the session\n")
	io.WriteString(w, "exit - quit\n")
}

func shellLoop(session *trainer.Session, positions store.Store) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:      "\033[31mendgame>\033[0m ",
		HistoryFile: "/tmp/endgame-readline.tmp",
		EOFPrompt:   "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	out := l.Stdout()
	unsubscribe := session.Subscribe(trainer.ObserverFuncs{
		OnMoveFeedback: func(fb trainer.Feedback) {
			msg := fmt.Sprintf("[%s] %s", fb.Outcome.Transition, fb.Message)
			if fb.BestMove != "" {
				msg += fmt.Sprintf(" (best was %s)", fb.BestMove)
			}
			showMessage(msg, out)
		},
	})
	defer unsubscribe()

	ctx := context.Background()
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "exit", "bye", "quit":
			return nil
		case "help":
			usage(l.Stderr())
		case "start":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			if session.State() != trainer.Idle {
				session.Reset()
			}
			if err := session.StartSession(ctx, category); err != nil {
				showMessage("could not start: "+err.Error(), out)
				continue
			}
			ex := session.CurrentExercise()
			showMessage(fmt.Sprintf("%s (%s)", ex.Title, ex.Category), out)
			showPosition(session.Position(), out)
		case "move":
			if len(args) != 1 {
				showMessage("usage: move <move>", out)
				continue
			}
			res, err := session.SubmitMove(ctx, args[0])
			if err != nil {
				showMessage(err.Error(), out)
				continue
			}
			if res.OpponentReply != "" {
				showMessage("opponent played "+res.OpponentReply, out)
			}
			if res.State == trainer.SessionComplete {
				showMessage(fmt.Sprintf("session complete: %s", res.Status), out)
			} else {
				showPosition(res.Position, out)
			}
		case "hint":
			hint, err := session.Hint(ctx)
			if err != nil {
				showMessage("no hint: "+err.Error(), out)
				continue
			}
			if hint.DTZ != nil {
				showMessage(fmt.Sprintf("try %s (%s, dtz %d)", hint.SAN, hint.WDL, *hint.DTZ), out)
			} else {
				showMessage(fmt.Sprintf("try %s (%s)", hint.SAN, hint.WDL), out)
			}
		case "show":
			showPosition(session.Position(), out)
		case "categories":
			cats, err := positions.Categories()
			if err != nil {
				showMessage(err.Error(), out)
				continue
			}
			showMessage(strings.Join(cats, ", "), out)
		case "reset":
			session.Reset()
			showMessage("session reset", out)
		default:
			showMessage("unknown command; try help", out)
		}
	}
	log.Debug().Msg("exiting shell loop")
	return nil
}

func showPosition(pos rules.Position, w io.Writer) {
	if pos.FEN == "" {
		showMessage("no position loaded", w)
		return
	}
	showMessage(fmt.Sprintf("%s to move: %s", pos.SideToMove, pos.FEN), w)
}
