package calcflow

import (
	"context"
	"errors"

	"pet-care-platform/internal/client"
)

// ReviewAPI es el subconjunto del SDK que necesita la puerta de revisión.
type ReviewAPI interface {
	CheckReview(ctx context.Context, feedID string) (client.ReviewCheck, error)
	ConfirmReview(ctx context.Context, feedID string) (client.ReviewOutcome, error)
	ReportError(ctx context.Context, feedID string, in client.ErrorReportInput) (client.ReviewOutcome, error)
}

// Action es lo que el usuario eligió frente al prompt de revisión.
type Action int

const (
	ActionConfirm Action = iota // "los datos se ven bien"
	ActionReport                // reportar datos incorrectos
	ActionSkip                  // cerrar sin opinar
)

// Decision empaqueta la elección del Prompter. Report solo aplica
// cuando Do == ActionReport.
type Decision struct {
	Do     Action
	Report *client.ErrorReportInput
}

// Prompter muestra los datos del alimento y pide al usuario confirmar,
// reportar o saltar. La implementación real es interactiva (CLI/UI);
// en tests es un fake.
type Prompter interface {
	PromptReview(ctx context.Context, feed client.Feed) (Decision, error)
}

var ErrReviewDeclined = errors.New("review declined")

// ReviewGate decide si un alimento puede usarse en un cálculo.
// Alimentos verificados pasan directo. Para no verificados, el creador
// pasa sin prompt y sin llamada de red; el resto pasa una sola vez por
// el prompt (las decisiones previas se consultan al server).
type ReviewGate struct {
	api      ReviewAPI
	prompter Prompter
	userID   string
}

func NewReviewGate(api ReviewAPI, prompter Prompter, userID string) *ReviewGate {
	return &ReviewGate{api: api, prompter: prompter, userID: userID}
}

// Clear retorna nil si el alimento quedó habilitado para calcular.
// Puede mutar feed.ReviewCount/IsVerified con el resultado del server,
// o de forma optimista si la llamada de confirmación falla.
func (g *ReviewGate) Clear(ctx context.Context, feed *client.Feed) error {
	if g == nil || feed == nil {
		return errors.New("calcflow: gate not configured")
	}

	if feed.IsVerified {
		return nil
	}

	// El creador no revisa su propio alimento: pasa sin ir a la red.
	if g.userID != "" && feed.CreatorUserID == g.userID {
		return nil
	}

	check, err := g.api.CheckReview(ctx, feed.ID)
	if err != nil {
		return err
	}
	if check.Reviewed || check.Reported {
		return nil
	}

	return g.decide(ctx, feed)
}

// MarkAPI es lo mínimo para marcar un alimento como favorito.
type MarkAPI interface {
	MarkFeed(ctx context.Context, feedID string) error
}

// GuardedMark pasa la puerta de revisión antes de emitir el mark:
// un alimento no verificado y sin decisión previa primero se revisa.
func (g *ReviewGate) GuardedMark(ctx context.Context, api MarkAPI, feed *client.Feed) error {
	if err := g.Clear(ctx, feed); err != nil {
		return err
	}
	return api.MarkFeed(ctx, feed.ID)
}

func (g *ReviewGate) decide(ctx context.Context, feed *client.Feed) error {
	decision, err := g.prompter.PromptReview(ctx, *feed)
	if err != nil {
		return err
	}

	switch decision.Do {
	case ActionConfirm:
		// Conteo optimista: se refleja de inmediato y no se revierte
		// si la llamada falla.
		feed.ReviewCount++
		if out, err := g.api.ConfirmReview(ctx, feed.ID); err == nil {
			feed.ReviewCount = out.ReviewCount
			feed.IsVerified = out.IsVerified
		}
		return nil

	case ActionReport:
		report := client.ErrorReportInput{}
		if decision.Report != nil {
			report = *decision.Report
		}
		out, err := g.api.ReportError(ctx, feed.ID, report)
		if err != nil {
			return err
		}
		feed.ReviewCount = out.ReviewCount
		feed.IsVerified = out.IsVerified
		return nil

	default:
		return ErrReviewDeclined
	}
}
