// Grounded in original_source/framework/src/lib.rs's handle_interaction
// (spec.md §4.4): resolve the interaction's concrete kind, look up its
// handler in the Registry, build the matching *Context, invoke.
package framework

import (
	stdctx "context"

	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/restclient"
)

// DispatchInteraction routes a decoded Interaction to its registered
// handler. A command or custom_id with no registration, or an
// interaction kind the runtime doesn't route, is a RouteMiss; a modal
// submission is explicitly unimplemented (spec.md §4.4).
func (rt *Runtime) DispatchInteraction(ctx stdctx.Context, raw []byte) error {
	interaction, err := discordtypes.UnmarshalInteraction(raw)
	if err != nil {
		return apperr.Wrap(apperr.KindParse, "unmarshal interaction", err)
	}

	switch i := interaction.(type) {
	case *discordtypes.ApplicationCommandInteraction:
		return rt.dispatchCommand(ctx, i)
	case *discordtypes.MessageComponentInteraction:
		return rt.dispatchComponent(ctx, i)
	case *discordtypes.ModalSubmitInteraction:
		rt.replyRouteMiss(i.GetID(), i.GetToken(), "this action isn't supported yet")
		return apperr.ErrNotImplemented
	default:
		rt.replyRouteMiss(interaction.GetID(), interaction.GetToken(), "unsupported interaction")
		return apperr.New(apperr.KindRouteMiss, "unhandled interaction kind")
	}
}

func (rt *Runtime) dispatchCommand(ctx stdctx.Context, i *discordtypes.ApplicationCommandInteraction) error {
	handler, ok := rt.registry.FindCommand(i.Data.Name)
	if !ok {
		rt.replyRouteMiss(i.GetID(), i.GetToken(), "unknown command: "+i.Data.Name)
		return apperr.New(apperr.KindRouteMiss, "unknown command: "+i.Data.Name)
	}

	cctx := CommandContext{
		Context:     rt.baseContext(ctx, handler.Module),
		Interaction: i,
	}
	if err := handler.Func(cctx); err != nil {
		return apperr.Wrap(apperr.KindHandler, "command "+i.Data.Name, err)
	}
	return nil
}

func (rt *Runtime) dispatchComponent(ctx stdctx.Context, i *discordtypes.MessageComponentInteraction) error {
	handler, ok := rt.registry.FindComponent(i.Data.CustomID)
	if !ok {
		rt.replyRouteMiss(i.GetID(), i.GetToken(), "unknown component: "+i.Data.CustomID)
		return apperr.New(apperr.KindRouteMiss, "unknown custom_id: "+i.Data.CustomID)
	}

	cctx := ComponentInteractionContext{
		Context:     rt.baseContext(ctx, handler.Module),
		Interaction: i,
	}
	if err := handler.Func(cctx); err != nil {
		return apperr.Wrap(apperr.KindHandler, "component "+i.Data.CustomID, err)
	}
	return nil
}

// replyRouteMiss best-effort acknowledges a RouteMiss with an ephemeral
// error message, per spec.md §7's "respond to user" policy. The upstream
// call is fire-and-forget: if it fails (e.g. the 3s ack window already
// lapsed) the failure is swallowed, since the caller already has its own
// RouteMiss error to log.
func (rt *Runtime) replyRouteMiss(id discordtypes.Snowflake, token, message string) {
	_ = rt.rest.CreateInteractionResponse(id, token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeChannelMessageWithSource,
		Data: &restclient.InteractionCallbackMessage{
			Content: message,
			Flags:   restclient.MessageFlagEphemeral,
		},
	})
}

// DispatchEvent fans raw out to every module subscribed to kind, per
// spec.md §4.3's consume-loop event path. Each subscriber's error is
// logged independently; one subscriber failing never stops the others.
func (rt *Runtime) DispatchEvent(ctx stdctx.Context, kind discordtypes.EventKind, raw []byte) {
	for _, h := range rt.registry.EventsFor(kind) {
		ectx := EventContext{
			Context: rt.baseContext(ctx, h.Module),
			Kind:    kind,
			Raw:     raw,
		}
		if err := h.Func(ectx); err != nil {
			rt.logger.Error().
				Err(err).
				Str("module", h.Module).
				Str("event", string(kind)).
				Msg("event handler failed")
		}
	}
}

// baseContext builds the Context embedded in every per-invocation
// context, annotating the logger with the owning module's name.
func (rt *Runtime) baseContext(ctx stdctx.Context, module string) Context {
	return Context{
		Context:       ctx,
		ApplicationID: rt.applicationID,
		Services:      rt.services,
		REST:          rt.rest,
		Logger:        rt.logger.With().Str("module", module).Logger(),
	}
}
