package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/specification"
	"rag-chatbot-be/pkg/store"
)

// --- Fakes ---

type fakeDocumentRepo struct {
	nextId    int64
	documents map[int64]*entity.Document
	createErr error
	deleteErr error
	deleted   []int64
	lastSpecs []specification.Specification
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		nextId:    1,
		documents: make(map[int64]*entity.Document),
	}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	document.Id = f.nextId
	f.nextId++
	stored := *document
	f.documents[document.Id] = &stored
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.documents, id)
	return nil
}

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByRecordID); ok {
			if doc, found := f.documents[byId.ID]; found {
				return doc, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	f.lastSpecs = specs
	docs := make([]*entity.Document, 0, len(f.documents))
	for _, doc := range f.documents {
		docs = append(docs, doc)
	}
	return docs, nil
}

type fakePassageStore struct {
	stored []*entity.Passage
}

func (f *fakePassageStore) CreateBulk(ctx context.Context, passages []*entity.Passage) error {
	f.stored = append(f.stored, passages...)
	return nil
}

func (f *fakePassageStore) DeleteByDocumentID(ctx context.Context, documentId int64) (int64, error) {
	return 0, nil
}

func (f *fakePassageStore) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.Passage, error) {
	return nil, nil
}

func (f *fakePassageStore) byDocument(specs []specification.Specification) []*entity.Passage {
	var docId int64 = -1
	for _, spec := range specs {
		if byDoc, ok := spec.(specification.ByDocumentID); ok {
			docId = byDoc.DocumentID
		}
	}
	var matched []*entity.Passage
	for _, p := range f.stored {
		if docId < 0 || p.DocumentId == docId {
			matched = append(matched, p)
		}
	}
	return matched
}

func (f *fakePassageStore) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Passage, error) {
	return f.byDocument(specs), nil
}

func (f *fakePassageStore) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.byDocument(specs))), nil
}

type fakeIndexer struct {
	insertErr    error
	deleteErr    error
	hadPassages  bool
	lastChunks   []store.Passage
	lastDocId    int64
	deletedDocId int64
}

func (f *fakeIndexer) Insert(ctx context.Context, chunks []store.Passage, documentId int64) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.lastChunks = chunks
	f.lastDocId = documentId
	return nil
}

func (f *fakeIndexer) Delete(ctx context.Context, documentId int64) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	f.deletedDocId = documentId
	return f.hadPassages, nil
}

func newTestDocumentService(repo *fakeDocumentRepo, indexer *fakeIndexer) IDocumentService {
	return newTestDocumentServiceWithPassages(repo, &fakePassageStore{}, indexer)
}

func newTestDocumentServiceWithPassages(repo *fakeDocumentRepo, passages *fakePassageStore, indexer *fakeIndexer) IDocumentService {
	return NewDocumentService(
		repo,
		passages,
		indexer,
		DocumentServiceConfig{ChunkSize: 1000, ChunkOverlap: 200},
		logger.NewNopLogger(),
	)
}

// --- Tests ---

func TestUploadRejectsNonCSV(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := newTestDocumentService(repo, &fakeIndexer{})

	for _, filename := range []string{"data.txt", "data.pdf", "data"} {
		_, err := svc.Upload(context.Background(), filename, strings.NewReader("a,b\n1,2\n"))
		require.Error(t, err, filename)
		assert.True(t, apperrors.Is(err, apperrors.KindFormat))
	}

	assert.Empty(t, repo.documents, "rejected upload must not register a document")
}

func TestUploadThreeRows(t *testing.T) {
	repo := newFakeDocumentRepo()
	indexer := &fakeIndexer{}
	svc := newTestDocumentService(repo, indexer)

	csv := "name,price\nApple,10\nBanana,5\nCherry,25\n"
	res, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "fruit.csv", res.Filename)
	assert.Equal(t, 3, res.ChunkCount)
	assert.NotZero(t, res.FileId)

	require.Len(t, indexer.lastChunks, 3)
	assert.Equal(t, res.FileId, indexer.lastDocId)

	first := indexer.lastChunks[0]
	assert.Equal(t, "name: Apple\nprice: 10", first.Content)
	assert.Equal(t, "fruit.csv", first.Metadata["source"])
	assert.Equal(t, 0, first.Metadata["row"])

	assert.Equal(t, 2, indexer.lastChunks[2].Metadata["row"])
}

func TestUploadCaseInsensitiveExtension(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), &fakeIndexer{})

	_, err := svc.Upload(context.Background(), "DATA.CSV", strings.NewReader("a\n1\n"))
	require.NoError(t, err)
}

func TestUploadMalformedCSVRollsBack(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := newTestDocumentService(repo, &fakeIndexer{})

	_, err := svc.Upload(context.Background(), "bad.csv", strings.NewReader("name\n\"unclosed\n"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindFormat))

	assert.Empty(t, repo.documents, "record must be rolled back after a parse failure")
	assert.Contains(t, repo.deleted, int64(1))
}

func TestUploadIndexFailureRollsBack(t *testing.T) {
	repo := newFakeDocumentRepo()
	indexer := &fakeIndexer{insertErr: errors.New("embedder down")}
	svc := newTestDocumentService(repo, indexer)

	_, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader("a\n1\n"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindStorage))

	assert.Empty(t, repo.documents, "record must be rolled back after an index failure")
}

func TestUploadEmptyCSVRejected(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := newTestDocumentService(repo, &fakeIndexer{})

	// both a zero-byte file and a header-only one carry nothing to index
	for _, input := range []string{"", "name,price\n"} {
		_, err := svc.Upload(context.Background(), "empty.csv", strings.NewReader(input))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	}

	assert.Empty(t, repo.documents, "rejected empty uploads must not leave a record behind")
}

func TestDeleteDocument(t *testing.T) {
	repo := newFakeDocumentRepo()
	indexer := &fakeIndexer{hadPassages: true}
	svc := newTestDocumentService(repo, indexer)

	res, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader("a\n1\n"))
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), res.FileId)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, res.FileId, indexer.deletedDocId)
	assert.Empty(t, repo.documents)
}

func TestDeleteUnknownDocument(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), &fakeIndexer{hadPassages: false})

	_, err := svc.Delete(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDeleteOrphanedPassages(t *testing.T) {
	// Passages without a record can happen when a record delete failed
	// mid-way. Deleting again must still clean up and report success.
	svc := newTestDocumentService(newFakeDocumentRepo(), &fakeIndexer{hadPassages: true})

	res, err := svc.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
}

func TestDeletePassageFailureKeepsRecord(t *testing.T) {
	repo := newFakeDocumentRepo()
	indexer := &fakeIndexer{}
	svc := newTestDocumentService(repo, indexer)

	uploaded, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader("a\n1\n"))
	require.NoError(t, err)

	indexer.deleteErr = errors.New("index down")
	_, err = svc.Delete(context.Background(), uploaded.FileId)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindStorage))

	assert.Len(t, repo.documents, 1, "record must survive when passage deletion fails")
}

func TestListDocuments(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := newTestDocumentService(repo, &fakeIndexer{})

	_, err := svc.Upload(context.Background(), "one.csv", strings.NewReader("a\n1\n"))
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), "two.csv", strings.NewReader("a\n2\n"))
	require.NoError(t, err)

	docs, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestListDocumentsPagination(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := newTestDocumentService(repo, &fakeIndexer{})

	_, err := svc.List(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Contains(t, repo.lastSpecs, specification.Pagination{Limit: 10, Offset: 5})

	// no limit means no pagination clause at all
	_, err = svc.List(context.Background(), 0, 5)
	require.NoError(t, err)
	for _, spec := range repo.lastSpecs {
		_, isPagination := spec.(specification.Pagination)
		assert.False(t, isPagination, "limit 0 must not paginate")
	}
}

func TestShowDocument(t *testing.T) {
	repo := newFakeDocumentRepo()
	passages := &fakePassageStore{}
	svc := newTestDocumentServiceWithPassages(repo, passages, &fakeIndexer{})

	uploaded, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader("a\n1\n2\n"))
	require.NoError(t, err)

	passages.stored = []*entity.Passage{
		{DocumentId: uploaded.FileId, Content: "a: 1", ChunkIndex: 0},
		{DocumentId: uploaded.FileId, Content: "a: 2", ChunkIndex: 1},
		{DocumentId: uploaded.FileId + 1, Content: "other doc"},
	}

	detail, err := svc.Show(context.Background(), uploaded.FileId)
	require.NoError(t, err)
	assert.Equal(t, uploaded.FileId, detail.Id)
	assert.Equal(t, "fruit.csv", detail.Filename)
	assert.Equal(t, int64(2), detail.ChunkCount, "count must only cover this document's passages")
}

func TestShowUnknownDocument(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), &fakeIndexer{})

	_, err := svc.Show(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestListPassages(t *testing.T) {
	repo := newFakeDocumentRepo()
	passages := &fakePassageStore{}
	svc := newTestDocumentServiceWithPassages(repo, passages, &fakeIndexer{})

	uploaded, err := svc.Upload(context.Background(), "fruit.csv", strings.NewReader("a\n1\n"))
	require.NoError(t, err)

	passages.stored = []*entity.Passage{
		{DocumentId: uploaded.FileId, Content: "a: 1", ChunkIndex: 0, Metadata: map[string]interface{}{"row": 0}},
		{DocumentId: uploaded.FileId + 1, Content: "someone else's chunk"},
	}

	res, err := svc.ListPassages(context.Background(), uploaded.FileId)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "a: 1", res[0].Content)
	assert.Equal(t, 0, res[0].ChunkIndex)
}

func TestListPassagesUnknownDocument(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), &fakeIndexer{})

	_, err := svc.ListPassages(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
