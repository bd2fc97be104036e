package session

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Reply sent when a handler panics.
const panicReply = "Something went wrong while handling this command."

// Session is a connection to a [*discordgo.Session] with additional metadata as
// well as all registered event handlers (see [discordgo.EventHandler])
// slash-commands (see [discordgo.ApplicationCommand]).
type Session struct {
	// The underlying session.
	dcs *discordgo.Session

	// Application ID associated with the bot.
	AppID string

	// Server ID commands are registered on (see [discordgo.Guild]). Empty for
	// global commands.
	ServerID string

	// Maps registered event handler names to their cancellation callbacks (see
	// [discordgo.Session.AddHandler]).
	Handlers map[string]func()

	// Maps registered command names to their handler functions. Read from
	// event goroutines while commands are being registered.
	mu       sync.RWMutex
	commands map[string]Handler
}

// NewSession creates a new session for the bot with the given token. Commands
// are registered on the server sID, or globally if sID is empty.
func NewSession(token string, sID string) (*Session, error) {
	dcs, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("session creation failed: %w", err)
	}

	// Slash-commands arrive as interactions, which need no privileged intents.
	dcs.Identify.Intents = discordgo.IntentsGuilds

	return &Session{
		dcs:      dcs,
		ServerID: sID,
		Handlers: make(map[string]func()),
		commands: make(map[string]Handler),
	}, nil
}

// Open connects to the gateway and syncs the given commands.
func (s *Session) Open(cmds []Command) error {
	if err := s.awaitReady(); err != nil {
		return err
	}

	// Unregister left-over commands. Deprecations or changes to command names
	// leave behind "ghost"-commands that don't work and simply produce an error.
	appCmds, err := s.dcs.ApplicationCommands(s.AppID, s.ServerID)
	if err != nil {
		return err
	}

	for _, c := range stale(appCmds, cmds) {
		log.Debug("Unregistering left-over command", "id", c.ID, "name", c.Name)
		if err := s.dcs.ApplicationCommandDelete(s.AppID, s.ServerID, c.ID); err != nil {
			log.Warn("Failed to unregister command", "id", c.ID, "name", c.Name, "err", err)
		}
	}

	// Register commands.
	for _, c := range cmds {
		if err := s.CommandAdd(c); err != nil {
			return err
		}
	}

	// Register generic handler for all slash-commands. Commands left over from
	// a previous run may be invoked as soon as this is in place.
	return s.HandlerAdd("handle-command", s.handleCommand)
}

// Close removes all event handlers and disconnects from the gateway.
func (s *Session) Close() error {
	for name := range s.Handlers {
		s.HandlerRemove(name)
	}

	log.Info("Closing session")
	return s.dcs.Close()
}

// awaitReady starts initialization of the underlying session and synchronously
// waits for the initialization to finish.
func (s *Session) awaitReady() error {
	var rdy sync.WaitGroup
	rdy.Add(1)

	// Register handler to await session initialization. This ensures that AppID
	// is available.
	err := s.HandlerAdd("session-ready", func(dcs *discordgo.Session, r *discordgo.Ready) {
		s.AppID = r.User.ID
		log.Info("Session ready", "id", s.AppID, "user", r.User.Username)
		rdy.Done()
	})
	if err != nil {
		return err
	}

	if err := s.dcs.Open(); err != nil {
		return err
	}

	log.Info("Awaiting session ready")
	rdy.Wait()
	s.HandlerRemove("session-ready")

	return nil
}

// handleCommand routes slash-command interactions to their [Handler].
func (s *Session) handleCommand(dcs *discordgo.Session, i *discordgo.InteractionCreate) {
	res := s.dispatch(dcs, i)
	if res == nil {
		return
	}

	if err := dcs.InteractionRespond(i.Interaction, res); err != nil {
		log.Error("Response failed", "name", i.ApplicationCommandData().Name, "err", err)
	}
}

// dispatch runs the handler for the given interaction and returns its
// response. A panicking handler is answered with a generic reply, so that a
// single faulty request cannot take down the bot.
func (s *Session) dispatch(dcs *discordgo.Session, i *discordgo.InteractionCreate) (res *discordgo.InteractionResponse) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	name := i.ApplicationCommandData().Name
	h, ok := s.handler(name)
	if !ok {
		log.Warn("Unknown command", "name", name)
		return nil
	}

	rID := uuid.NewString()
	log.Info("Executing command", "name", name, "rID", rID, "uID", userID(i.Interaction))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Command panicked", "name", name, "rID", rID, "panic", r)
			res = &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: panicReply,
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			}
		}
	}()

	res = h(dcs, i.Interaction)
	log.Debug("Command complete", "name", name, "rID", rID)
	return res
}

// CommandAdd adds a new slash-command (see [discordgo.ApplicationCommand]) from
// a [Command].
func (s *Session) CommandAdd(cmd Command) error {
	if _, ok := s.handler(cmd.Definition.Name); ok {
		return fmt.Errorf("command with name `%s` already exists", cmd.Definition.Name)
	}

	if _, err := s.dcs.ApplicationCommandCreate(s.AppID, s.ServerID, cmd.Definition); err != nil {
		return fmt.Errorf("command creation `%s` failed: %w", cmd.Definition.Name, err)
	}

	log.Info("Command registered", "name", cmd.Definition.Name)
	s.mu.Lock()
	s.commands[cmd.Definition.Name] = cmd.Handler
	s.mu.Unlock()
	return nil
}

// handler returns the handler registered for the command with the given name.
func (s *Session) handler(name string) (Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.commands[name]
	return h, ok
}

// HandlerAdd adds an event handler and associates it with the given name. Names
// must be unique to allow deleting them at a later point in time. Errors if a
// handler for the given name already exists.
func (s *Session) HandlerAdd(name string, handler any) error {
	if _, ok := s.Handlers[name]; ok {
		return fmt.Errorf("handler for name `%s` already exists", name)
	}

	rv := reflect.ValueOf(handler)
	rt := rv.Type()

	// Wrap handler to allow generic logging for all handlers.
	fn := reflect.MakeFunc(rt, func(in []reflect.Value) []reflect.Value {
		log.Debug("Executing handler", "name", name)
		rv.Call(in)
		return nil
	}).Interface()

	log.Info("Handler registered", "name", name)
	s.Handlers[name] = s.dcs.AddHandler(fn)
	return nil
}

// HandlerRemove removes the event handler for the given name. Results in a noop
// if no handler exists for the name.
func (s *Session) HandlerRemove(name string) {
	if h, ok := s.Handlers[name]; ok {
		log.Debug("Handler removed", "name", name)
		h()
		delete(s.Handlers, name)
	}
}

func userID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	}
	return ""
}
