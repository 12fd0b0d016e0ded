package service

import (
	"context"
	"io"
	"strings"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/internal/repository/specification"
	"rag-chatbot-be/pkg/store"
	"rag-chatbot-be/pkg/tabular"
	"rag-chatbot-be/pkg/utils"
)

// PassageIndexer is the indexing slice of the retriever.
type PassageIndexer interface {
	Insert(ctx context.Context, chunks []store.Passage, documentId int64) error
	Delete(ctx context.Context, documentId int64) (bool, error)
}

type IDocumentService interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, limit, offset int) ([]*dto.DocumentResponse, error)
	Show(ctx context.Context, id int64) (*dto.DocumentDetailResponse, error)
	ListPassages(ctx context.Context, id int64) ([]*dto.PassageResponse, error)
	Delete(ctx context.Context, id int64) (*dto.DeleteDocumentResponse, error)
}

type DocumentServiceConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type documentService struct {
	documentRepo contract.DocumentRepository
	passageRepo  contract.PassageRepository
	indexer      PassageIndexer
	cfg          DocumentServiceConfig
	log          logger.ILogger
}

func NewDocumentService(
	documentRepo contract.DocumentRepository,
	passageRepo contract.PassageRepository,
	indexer PassageIndexer,
	cfg DocumentServiceConfig,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documentRepo: documentRepo,
		passageRepo:  passageRepo,
		indexer:      indexer,
		cfg:          cfg,
		log:          log,
	}
}

// Upload ingests one CSV file: record the document, parse rows, chunk and
// index them. If anything after record creation fails, the record is rolled
// back so a failed ingestion leaves no half-registered document behind.
func (d *documentService) Upload(ctx context.Context, filename string, file io.Reader) (*dto.UploadDocumentResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return nil, apperrors.New(apperrors.KindFormat, "only CSV files are supported")
	}

	document := &entity.Document{
		Filename: filename,
	}
	if err := d.documentRepo.Create(ctx, document); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to register document", err)
	}

	rows, err := tabular.LoadCSV(file, filename)
	if err != nil {
		d.rollbackDocument(ctx, document.Id)
		return nil, apperrors.Wrap(apperrors.KindFormat, "failed to parse CSV file", err)
	}
	if len(rows) == 0 {
		d.rollbackDocument(ctx, document.Id)
		return nil, apperrors.New(apperrors.KindValidation, "empty file provided")
	}

	chunks := make([]store.Passage, 0, len(rows))
	for _, row := range rows {
		for _, piece := range utils.SplitText(row.Content, d.cfg.ChunkSize, d.cfg.ChunkOverlap) {
			chunks = append(chunks, store.Passage{
				Content: piece,
				Metadata: map[string]interface{}{
					"source": row.Source,
					"row":    row.RowNum,
				},
			})
		}
	}

	if err := d.indexer.Insert(ctx, chunks, document.Id); err != nil {
		d.rollbackDocument(ctx, document.Id)
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to index document", err)
	}

	d.log.Info("service.document", "Document ingested", map[string]interface{}{
		"file_id":     document.Id,
		"filename":    filename,
		"chunk_count": len(chunks),
	})

	return &dto.UploadDocumentResponse{
		FileId:     document.Id,
		Filename:   filename,
		ChunkCount: len(chunks),
	}, nil
}

func (d *documentService) rollbackDocument(ctx context.Context, id int64) {
	if err := d.documentRepo.Delete(ctx, id); err != nil {
		d.log.Error("service.document", "Failed to roll back document record", map[string]interface{}{
			"file_id": id,
			"error":   err.Error(),
		})
	}
}

func (d *documentService) List(ctx context.Context, limit, offset int) ([]*dto.DocumentResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "upload_timestamp", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	documents, err := d.documentRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to list documents", err)
	}

	res := make([]*dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		res = append(res, &dto.DocumentResponse{
			Id:              doc.Id,
			Filename:        doc.Filename,
			UploadTimestamp: doc.UploadTimestamp,
		})
	}

	return res, nil
}

func (d *documentService) Show(ctx context.Context, id int64) (*dto.DocumentDetailResponse, error) {
	document, err := d.documentRepo.FindOne(ctx, specification.ByRecordID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to look up document", err)
	}
	if document == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "document not found")
	}

	chunkCount, err := d.passageRepo.Count(ctx, specification.ByDocumentID{DocumentID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to count document passages", err)
	}

	return &dto.DocumentDetailResponse{
		Id:              document.Id,
		Filename:        document.Filename,
		UploadTimestamp: document.UploadTimestamp,
		ChunkCount:      chunkCount,
	}, nil
}

// ListPassages returns a document's indexed chunks in their original order,
// mainly for inspecting what a given upload actually contributed.
func (d *documentService) ListPassages(ctx context.Context, id int64) ([]*dto.PassageResponse, error) {
	document, err := d.documentRepo.FindOne(ctx, specification.ByRecordID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to look up document", err)
	}
	if document == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "document not found")
	}

	passages, err := d.passageRepo.FindAll(ctx,
		specification.ByDocumentID{DocumentID: id},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to list document passages", err)
	}

	res := make([]*dto.PassageResponse, 0, len(passages))
	for _, p := range passages {
		res = append(res, &dto.PassageResponse{
			ChunkIndex: p.ChunkIndex,
			Content:    p.Content,
			Metadata:   p.Metadata,
		})
	}

	return res, nil
}

// Delete removes a document's passages first, then its record. The ordering
// means a partial failure can only leave an unsearchable record, never
// searchable passages pointing at a deleted document.
func (d *documentService) Delete(ctx context.Context, id int64) (*dto.DeleteDocumentResponse, error) {
	document, err := d.documentRepo.FindOne(ctx, specification.ByRecordID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to look up document", err)
	}

	passagesRemoved, err := d.indexer.Delete(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to delete document passages", err)
	}

	if document == nil && !passagesRemoved {
		return nil, apperrors.New(apperrors.KindNotFound, "document not found")
	}

	if document != nil {
		if err := d.documentRepo.Delete(ctx, id); err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "failed to delete document record", err)
		}
	}

	d.log.Info("service.document", "Document deleted", map[string]interface{}{
		"file_id": id,
	})

	return &dto.DeleteDocumentResponse{Deleted: true}, nil
}
