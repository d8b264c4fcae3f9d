package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	sc "github.com/dmitrijs2005/evoting/internal/server/config"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Seams for tests.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportURLValidity is how long the presigned download link stays valid.
const ExportURLValidity = 15 * time.Minute

// ChainReport is the outcome of re-walking an election's hash chain.
type ChainReport struct {
	ElectionID string
	Valid      bool
	Checked    int
	// FirstBrokenSeq is 0 when the chain is intact.
	FirstBrokenSeq int64
}

// LedgerExport points at an uploaded ledger dump.
type LedgerExport struct {
	Key   string
	URL   string
	Votes int
}

type exportedVote struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id,omitempty"`
	Payload   string    `json:"encrypted_payload"`
	Signature string    `json:"signature"`
	ChainHash string    `json:"chain_hash"`
	CreatedAt time.Time `json:"created_at"`
}

type exportedLedger struct {
	ElectionID string         `json:"election_id"`
	Title      string         `json:"title"`
	Anonymous  bool           `json:"anonymous"`
	Genesis    string         `json:"genesis"`
	ExportedAt time.Time      `json:"exported_at"`
	Votes      []exportedVote `json:"votes"`
}

// AuditService verifies and exports the vote ledger.
type AuditService struct {
	repomanager repomanager.RepositoryManager
	codec       BallotSealer
	config      *sc.Config
	log         logging.Logger
	now         func() time.Time
}

func NewAuditService(m repomanager.RepositoryManager, codec BallotSealer, cfg *sc.Config, log logging.Logger) *AuditService {
	return &AuditService{repomanager: m, codec: codec, config: cfg, log: log.With("module", "audit"), now: time.Now}
}

// VerifyChain recomputes every chain hash from genesis in seq order and
// checks each signature. A vote whose payload or signature was altered
// breaks itself and every later vote.
func (s *AuditService) VerifyChain(ctx context.Context, p auth.Principal, electionID string) (*ChainReport, error) {
	db := s.repomanager.Conn()
	if _, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionAuditLedger); err != nil {
		return nil, err
	}
	ledger, err := s.repomanager.Votes(db).ListByElection(ctx, electionID)
	if err != nil {
		return nil, storageError(err)
	}

	links := make([]cryptox.ChainLink, len(ledger))
	for i, v := range ledger {
		links[i] = cryptox.ChainLink{Payload: v.EncryptedPayload, Signature: v.Signature, ChainHash: v.ChainHash}
	}

	report := &ChainReport{ElectionID: electionID, Valid: true, Checked: len(ledger)}
	broken := cryptox.FirstBrokenLink(common.GenesisHash, links)
	for i, v := range ledger {
		if broken >= 0 && i >= broken {
			break
		}
		if v.Seq != int64(i+1) || !s.codec.VerifySignature(v.EncryptedPayload, v.VoterID, v.Signature) {
			broken = i
			break
		}
	}
	if broken >= 0 {
		report.Valid = false
		report.FirstBrokenSeq = ledger[broken].Seq
		s.log.Warn(ctx, "vote chain broken", "election_id", electionID, "seq", report.FirstBrokenSeq)
	}
	return report, nil
}

// ExportLedger uploads the chain of a CERRADA election as JSON and returns a
// presigned download URL. Voter ids are included only for non-anonymous
// elections. Super admins may export in any state.
func (s *AuditService) ExportLedger(ctx context.Context, p auth.Principal, electionID string) (*LedgerExport, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionAuditLedger)
	if err != nil {
		return nil, err
	}
	if e.State != models.StateClosed && !p.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: ledger export only available for closed elections", common.ErrorInvalidState)
	}
	ledger, err := s.repomanager.Votes(db).ListByElection(ctx, electionID)
	if err != nil {
		return nil, storageError(err)
	}

	now := s.now().UTC()
	doc := exportedLedger{
		ElectionID: e.ID,
		Title:      e.Title,
		Anonymous:  e.Anonymous,
		Genesis:    common.GenesisHash,
		ExportedAt: now,
		Votes:      make([]exportedVote, 0, len(ledger)),
	}
	for _, v := range ledger {
		ev := exportedVote{
			Seq: v.Seq, ID: v.ID, Payload: v.EncryptedPayload,
			Signature: v.Signature, ChainHash: v.ChainHash, CreatedAt: v.CreatedAt,
		}
		if !e.Anonymous {
			ev.VoterID = v.VoterID
		}
		doc.Votes = append(doc.Votes, ev)
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	key := LedgerStorageKey(electionID, now)
	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		s.log.Error(ctx, "ledger upload failed", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: upload ledger: %v", common.ErrorInternal, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign ledger: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "ledger exported", "election_id", electionID, "key", key, "votes", len(ledger))
	return &LedgerExport{Key: key, URL: req.URL, Votes: len(ledger)}, nil
}

// LedgerStorageKey is the object key of an export taken at t.
func LedgerStorageKey(electionID string, t time.Time) string {
	return fmt.Sprintf("ledgers/%s/%d/%02d/%02d/%v.json", electionID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *AuditService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}
