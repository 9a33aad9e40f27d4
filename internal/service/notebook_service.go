package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"notebook-core/internal/dto"
	"notebook-core/internal/pkg/logger"
	"notebook-core/internal/pkg/serverutils"
	"notebook-core/internal/repository/memory"
	"notebook-core/pkg/events"
	"notebook-core/pkg/message"
	"notebook-core/pkg/notebook"
	"notebook-core/pkg/store"
)

var (
	ErrSessionNotFound = errors.New("notebook session not found")
	ErrSessionExists   = errors.New("notebook session already open")
)

type INotebookService interface {
	Open(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	Import(ctx context.Context, raw []byte) (*dto.NotebookResponse, error)
	Export(ctx context.Context, notebookId string, excludeOutput bool) ([]byte, error)
	Close(ctx context.Context, notebookId string) error
	Sequence(ctx context.Context, notebookId string) ([]string, error)

	AddCell(ctx context.Context, req *dto.AddCellRequest) (*dto.CellResponse, error)
	AddInputOutput(ctx context.Context, req *dto.AddInputOutputRequest) (*dto.CellResponse, error)
	AddOutput(ctx context.Context, req *dto.AddOutputRequest) (*dto.CellResponse, error)
	SetOutput(ctx context.Context, req *dto.SetOutputRequest) (*dto.CellResponse, error)
	SetInput(ctx context.Context, req *dto.SetInputRequest) (*dto.CellResponse, error)
	MoveCell(ctx context.Context, req *dto.MoveCellRequest) (*dto.CellResponse, error)
	DeleteCell(ctx context.Context, req *dto.CellRequest) ([]string, error)
	DeleteOutputMessage(ctx context.Context, req *dto.DeleteOutputRequest) (*dto.CellResponse, error)
	ClearOutput(ctx context.Context, req *dto.CellRequest) (*dto.CellResponse, error)
	ClearOutputs(ctx context.Context, notebookId string) error

	ReportError(ctx context.Context, notebookId, cellId string, cause error) (*dto.CellResponse, error)
}

type NotebookServiceConfig struct {
	DefaultName     string
	DefaultLanguage string
}

type notebookService struct {
	sessions         *memory.SessionRepository
	publisherService IPublisherService
	logger           logger.ILogger
	cfg              NotebookServiceConfig
}

func NewNotebookService(
	sessions *memory.SessionRepository,
	publisherService IPublisherService,
	logger logger.ILogger,
	cfg NotebookServiceConfig,
) INotebookService {
	return &notebookService{
		sessions:         sessions,
		publisherService: publisherService,
		logger:           logger,
		cfg:              cfg,
	}
}

func (s *notebookService) Open(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = s.cfg.DefaultName
	}
	nb := notebook.New(name, req.Description)
	if req.Linear != nil {
		nb.Linear = *req.Linear
	}
	for _, tag := range req.Tags {
		nb.AddTag(tag)
	}

	return s.open(ctx, nb)
}

func (s *notebookService) Import(ctx context.Context, raw []byte) (*dto.NotebookResponse, error) {
	nb, err := notebook.FromJSON(raw)
	if err != nil {
		s.logger.Warn("NOTEBOOK", "Rejected notebook import", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return s.open(ctx, nb)
}

func (s *notebookService) open(ctx context.Context, nb *notebook.Notebook) (*dto.NotebookResponse, error) {
	session := store.NewSession(nb)
	session.Touch("open")
	if !s.sessions.Add(session) {
		s.logger.Warn("NOTEBOOK", "Notebook already open", map[string]interface{}{"notebook_id": nb.Id})
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, nb.Id)
	}

	s.logger.Info("NOTEBOOK", "Notebook opened", map[string]interface{}{
		"notebook_id": nb.Id,
		"cells":       nb.Len(),
	})
	s.publish(ctx, events.NewNotebookEvent(events.NotebookOpened, nb.Id, "", nb.IdSequence()))

	return &dto.NotebookResponse{
		Id:         nb.Id,
		Name:       nb.Name,
		CellCount:  nb.Len(),
		IdSequence: nb.IdSequence(),
		OpenedAt:   session.OpenedAt,
	}, nil
}

func (s *notebookService) Export(ctx context.Context, notebookId string, excludeOutput bool) ([]byte, error) {
	var out []byte
	err := s.withSession(notebookId, "export", func(nb *notebook.Notebook) error {
		var err error
		out, err = nb.ToJSON(excludeOutput)
		return err
	})
	return out, err
}

func (s *notebookService) Close(ctx context.Context, notebookId string) error {
	if _, err := s.session(notebookId); err != nil {
		return err
	}
	s.sessions.Delete(notebookId)

	s.logger.Info("NOTEBOOK", "Notebook closed", map[string]interface{}{"notebook_id": notebookId})
	s.publish(ctx, events.NewNotebookEvent(events.NotebookClosed, notebookId, "", nil))
	return nil
}

func (s *notebookService) Sequence(ctx context.Context, notebookId string) ([]string, error) {
	var ids []string
	err := s.withSession(notebookId, "sequence", func(nb *notebook.Notebook) error {
		ids = nb.IdSequence()
		return nil
	})
	return ids, err
}

func (s *notebookService) AddCell(ctx context.Context, req *dto.AddCellRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var input message.Message
	if message.IsEmptyJSON(req.Input) {
		input = message.NewCodeMessage("", s.cfg.DefaultLanguage)
	} else {
		var err error
		if input, err = decodeMessage(req.Input); err != nil {
			return nil, err
		}
	}

	return s.mutateCell(ctx, req.NotebookId, "add_cell", events.CellAdded, true, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.AddMessage(input, req.ReferenceCellId, notebook.Position(req.Position))
	})
}

func (s *notebookService) AddInputOutput(ctx context.Context, req *dto.AddInputOutputRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	input, err := decodeMessage(req.Input)
	if err != nil {
		return nil, err
	}
	output, err := decodeMessage(req.Output)
	if err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "add_input_output", events.CellAdded, true, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.AddInputOutput(input, output, req.ReferenceCellId, notebook.Position(req.Position))
	})
}

func (s *notebookService) AddOutput(ctx context.Context, req *dto.AddOutputRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	output, err := decodeMessage(req.Output)
	if err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "add_output", events.CellOutputAdded, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.AddOutput(output, req.CellId)
	})
}

func (s *notebookService) SetOutput(ctx context.Context, req *dto.SetOutputRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	outputs := make([]message.Message, 0, len(req.Outputs))
	for _, raw := range req.Outputs {
		msg, err := decodeMessage(raw)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, msg)
	}

	return s.mutateCell(ctx, req.NotebookId, "set_output", events.CellOutputSet, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.SetOutput(req.CellId, outputs...)
	})
}

func (s *notebookService) SetInput(ctx context.Context, req *dto.SetInputRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	input, err := decodeMessage(req.Input)
	if err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "set_input", events.CellInputSet, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.SetInput(input)
	})
}

func (s *notebookService) MoveCell(ctx context.Context, req *dto.MoveCellRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "move_cell", events.CellMoved, true, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.MoveCell(req.CellId, req.ReferenceCellId, notebook.Position(req.Position))
	})
}

// DeleteCell removes the cell and returns the remaining id sequence. Deleting
// an unknown cell is not an error and publishes nothing.
func (s *notebookService) DeleteCell(ctx context.Context, req *dto.CellRequest) ([]string, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		ids     []string
		deleted bool
	)
	err := s.withSession(req.NotebookId, "delete_cell", func(nb *notebook.Notebook) error {
		deleted = nb.CellIdExists(req.CellId)
		nb.DeleteCell(req.CellId)
		ids = nb.IdSequence()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		s.logger.Info("NOTEBOOK", "Cell deleted", map[string]interface{}{
			"notebook_id": req.NotebookId,
			"cell_id":     req.CellId,
		})
		s.publish(ctx, events.NewNotebookEvent(events.CellDeleted, req.NotebookId, req.CellId, ids))
	}
	return ids, nil
}

func (s *notebookService) DeleteOutputMessage(ctx context.Context, req *dto.DeleteOutputRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "delete_output", events.CellOutputDeleted, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		if err := nb.DeleteOutputMessage(req.CellId, req.MessageId); err != nil {
			return nil, err
		}
		return nb.GetCellById(req.CellId), nil
	})
}

func (s *notebookService) ClearOutput(ctx context.Context, req *dto.CellRequest) (*dto.CellResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return s.mutateCell(ctx, req.NotebookId, "clear_output", events.CellOutputCleared, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		cell := nb.GetCellById(req.CellId)
		if cell == nil {
			return nil, fmt.Errorf("%w: cannot find a cell with id %s", notebook.ErrNotFound, req.CellId)
		}
		nb.ClearOutput(req.CellId)
		return cell, nil
	})
}

func (s *notebookService) ClearOutputs(ctx context.Context, notebookId string) error {
	err := s.withSession(notebookId, "clear_outputs", func(nb *notebook.Notebook) error {
		nb.ClearOutputs()
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.NewNotebookEvent(events.CellOutputCleared, notebookId, "", nil))
	return nil
}

// ReportError appends cause to the outputs of the cell as an ErrorMessage.
func (s *notebookService) ReportError(ctx context.Context, notebookId, cellId string, cause error) (*dto.CellResponse, error) {
	if cause == nil {
		return nil, fmt.Errorf("%w: no error to report", notebook.ErrInvalidArgument)
	}
	errMsg := message.FromError(cause)
	errMsg.SetCorrelationId(cellId)

	return s.mutateCell(ctx, notebookId, "report_error", events.CellOutputAdded, false, func(nb *notebook.Notebook) (*notebook.Cell, error) {
		return nb.AddOutput(errMsg, cellId)
	})
}

// mutateCell runs op under the session lock, then logs and publishes the
// change. withSequence attaches the id sequence to the event.
func (s *notebookService) mutateCell(
	ctx context.Context,
	notebookId, operation, eventType string,
	withSequence bool,
	op func(nb *notebook.Notebook) (*notebook.Cell, error),
) (*dto.CellResponse, error) {
	var res *dto.CellResponse
	err := s.withSession(notebookId, operation, func(nb *notebook.Notebook) error {
		cell, err := op(nb)
		if err != nil {
			return err
		}
		res = &dto.CellResponse{
			NotebookId:  notebookId,
			CellId:      cell.Id(),
			Index:       cell.Index(),
			OutputCount: len(cell.OutputMessages),
			IdSequence:  nb.IdSequence(),
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("NOTEBOOK", "Operation failed", map[string]interface{}{
			"notebook_id": notebookId,
			"operation":   operation,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.logger.Debug("NOTEBOOK", "Operation applied", map[string]interface{}{
		"notebook_id": notebookId,
		"operation":   operation,
		"cell_id":     res.CellId,
	})

	var sequence []string
	if withSequence {
		sequence = res.IdSequence
	}
	s.publish(ctx, events.NewNotebookEvent(eventType, notebookId, res.CellId, sequence))
	return res, nil
}

func (s *notebookService) withSession(notebookId, operation string, fn func(nb *notebook.Notebook) error) error {
	session, err := s.session(notebookId)
	if err != nil {
		return err
	}

	session.Lock()
	defer session.Unlock()

	if err := fn(session.Notebook); err != nil {
		return err
	}
	session.Touch(operation)
	s.sessions.Save(session)
	return nil
}

func (s *notebookService) session(notebookId string) (*store.Session, error) {
	session, ok := s.sessions.Get(notebookId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, notebookId)
	}
	return session, nil
}

// publish never fails the operation; the notebook has already changed.
func (s *notebookService) publish(ctx context.Context, evt events.BaseEvent) {
	payload, err := json.Marshal(dto.PublishNotebookEventMessage{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		s.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{"type": evt.Type, "error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{"type": evt.Type, "error": err.Error()})
	}
}

func validateRequest(req interface{}) error {
	if err := serverutils.ValidateRequest(req); err != nil {
		return fmt.Errorf("%w: %w", notebook.ErrInvalidArgument, err)
	}
	return nil
}

func decodeMessage(raw json.RawMessage) (message.Message, error) {
	msg, err := message.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", notebook.ErrInvalidArgument, err)
	}
	return msg, nil
}
