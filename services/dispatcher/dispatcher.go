package dispatcher

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"spectrobackend/core"
	"spectrobackend/models"
	"spectrobackend/services"
)

const (
	commandConfess = "confess"
	commandResend  = "resend"

	componentActionPublish = "publish"
	componentActionDelete  = "delete"
)

// InteractionDispatcher implements services.DispatcherService. It owns no
// state of its own; business logic is delegated to the confessions service
// and its result packaged into the matching callback variant.
type InteractionDispatcher struct {
	confessionsService services.ConfessionsService
}

func NewInteractionDispatcher(confessionsService services.ConfessionsService) *InteractionDispatcher {
	return &InteractionDispatcher{confessionsService: confessionsService}
}

func (d *InteractionDispatcher) DispatchInteraction(
	ctx context.Context,
	now time.Time,
	interaction *models.Interaction,
) (*models.InteractionCallback, error) {
	switch interaction.Type {
	case models.InteractionTypePing:
		return models.Pong(), nil

	case models.InteractionTypeApplicationCommand:
		return d.dispatchCommand(ctx, now, interaction)

	case models.InteractionTypeMessageComponent:
		return d.dispatchComponent(ctx, now, interaction)

	default:
		return nil, &core.UnsupportedInteractionTypeError{Type: int(interaction.Type)}
	}
}

func (d *InteractionDispatcher) dispatchCommand(
	ctx context.Context,
	now time.Time,
	interaction *models.Interaction,
) (*models.InteractionCallback, error) {
	command := interaction.Command
	if command == nil {
		return nil, core.NewInvariantViolation("application command interaction missing command data")
	}

	// The decoder rejects command interactions lacking these fields, so a
	// miss here is a bug in the decoder, not user input.
	if interaction.ChannelID == nil || interaction.Invoker() == nil || command.Options == nil {
		return nil, core.NewInvariantViolation(
			fmt.Sprintf("command %q decoded without channel, invoker or options", command.Name))
	}

	switch command.Name {
	case commandConfess:
		content, err := d.confessionsService.SubmitConfession(
			ctx, now, *interaction.ChannelID, interaction.Invoker(), command.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to submit confession: %w", err)
		}
		return models.ChannelMessageWithSource(content), nil

	case commandResend:
		value, ok := command.Option("confession")
		if !ok {
			return models.EphemeralMessageWithSource("Tell me which confession number to resend."), nil
		}
		confessionNumber, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			log.Printf("⚠️ Resend received non-numeric confession option %q", value)
			return models.EphemeralMessageWithSource(fmt.Sprintf("%q is not a confession number.", value)), nil
		}
		content, err := d.confessionsService.ResendConfession(
			ctx, now, *interaction.ChannelID, confessionNumber, interaction.Invoker())
		if err != nil {
			return nil, fmt.Errorf("failed to resend confession: %w", err)
		}
		return models.EphemeralMessageWithSource(content), nil

	default:
		return nil, &core.UnknownCommandError{Name: command.Name}
	}
}

func (d *InteractionDispatcher) dispatchComponent(
	ctx context.Context,
	now time.Time,
	interaction *models.Interaction,
) (*models.InteractionCallback, error) {
	component := interaction.Component
	if component == nil {
		return nil, core.NewInvariantViolation("message component interaction missing component data")
	}
	if interaction.Invoker() == nil {
		return nil, core.NewInvariantViolation("message component interaction missing invoker")
	}

	// Custom IDs are minted by our own log messages as action:internalId;
	// anything else slipping through the platform is a contract breach.
	action, internalID, found := strings.Cut(component.CustomID, ":")
	if !found || !core.IsValidID(internalID) {
		return nil, core.NewInvariantViolation(
			fmt.Sprintf("malformed component custom id %q", component.CustomID))
	}

	switch action {
	case componentActionPublish:
		content, err := d.confessionsService.PublishConfession(ctx, now, internalID, interaction.Invoker())
		if err != nil {
			return nil, fmt.Errorf("failed to publish confession: %w", err)
		}
		return models.EphemeralMessageWithSource(content), nil

	case componentActionDelete:
		content, err := d.confessionsService.DeleteConfession(ctx, now, internalID, interaction.Invoker())
		if err != nil {
			return nil, fmt.Errorf("failed to delete confession: %w", err)
		}
		return models.EphemeralMessageWithSource(content), nil

	default:
		return nil, core.NewInvariantViolation(
			fmt.Sprintf("unknown component action %q", action))
	}
}
