package workers

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/metrics"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/realtime"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
	"github.com/gemsmart/museumbackend/utils"
)

// TaskType constants
const (
	TaskThumbnail = "thumbnail"
	TaskMetadata  = "metadata"
	TaskScore     = "score"
)

type PhotoJob struct {
	SubmissionID uint
	RoomID       uint
	VisitorID    uint
	ImagePath    string // absolute path of the original submission file
	TaskType     string
}

// PhotoProcessor runs background processing for contest submissions: each
// uploaded photo fans out into one job per task type (thumbnail, metadata,
// score) and the workers write results back through the repository.
type PhotoProcessor struct {
	JobQueue  chan PhotoJob
	Photos    repository.PhotoSubmissionRepository
	Media     *media.Processor
	Scorer    services.Scorer
	Hub       *realtime.Hub
	ThumbSize int
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[string]bool
	Mutex     sync.Mutex
}

func NewPhotoProcessor(photos repository.PhotoSubmissionRepository, mediaProc *media.Processor, scorer services.Scorer, hub *realtime.Hub, thumbSize, queueSize, numWorkers int) *PhotoProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &PhotoProcessor{
		JobQueue:  make(chan PhotoJob, queueSize),
		Photos:    photos,
		Media:     mediaProc,
		Scorer:    scorer,
		Hub:       hub,
		ThumbSize: thumbSize,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d photo processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

// worker processes jobs from the queue
func (pp *PhotoProcessor) worker(id int) {
	defer pp.Wg.Done()

	log.Printf("Photo worker %d started", id)
	for {
		select {
		case job, ok := <-pp.JobQueue:
			if !ok {
				log.Printf("Photo worker %d stopping: Job queue closed", id)
				return
			}

			pendingKey := fmt.Sprintf("%d:%s", job.SubmissionID, job.TaskType)
			log.Printf("Worker %d: Received job type '%s' for submission %d", id, job.TaskType, job.SubmissionID)

			statusColumn := job.TaskType + "_status"
			err := pp.Photos.MarkTaskProcessing(job.SubmissionID, statusColumn)
			if err != nil {
				log.Printf("Worker %d: ERROR marking %s processing for submission %d: %v. Skipping job.", id, job.TaskType, job.SubmissionID, err)
				pp.Mutex.Lock()
				delete(pp.Pending, pendingKey)
				pp.Mutex.Unlock()
				continue
			}

			switch job.TaskType {
			case TaskThumbnail:
				pp.processThumbnailTask(job)
			case TaskMetadata:
				pp.processMetadataTask(job)
			case TaskScore:
				pp.processScoreTask(job)
			default:
				log.Printf("Worker %d: ERROR unknown task type '%s' for submission %d", id, job.TaskType, job.SubmissionID)
			}

			pp.Mutex.Lock()
			delete(pp.Pending, pendingKey)
			pp.Mutex.Unlock()

		case <-pp.StopChan:
			log.Printf("Photo worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// processThumbnailTask generates a thumbnail and stores the result
func (pp *PhotoProcessor) processThumbnailTask(job PhotoJob) {
	var taskErr error
	var thumbPathPtr *string

	if _, statErr := os.Stat(job.ImagePath); os.IsNotExist(statErr) {
		taskErr = fmt.Errorf("original file not found: %w", statErr)
		log.Printf("Worker: Skipping thumbnail task for submission %d: %v", job.SubmissionID, taskErr)
	} else if statErr != nil {
		taskErr = fmt.Errorf("failed to stat original file: %w", statErr)
		log.Printf("Worker: ERROR stating file for thumbnail task, submission %d: %v", job.SubmissionID, taskErr)
	} else {
		img, openErr := imaging.Open(job.ImagePath, imaging.AutoOrientation(true))
		if openErr != nil {
			taskErr = fmt.Errorf("failed to open original image: %w", openErr)
			log.Printf("Worker: ERROR %v", taskErr)
		} else {
			thumbSavePath, genErr := pp.Media.GenerateThumbnail(img, job.ImagePath, pp.ThumbSize)
			if genErr != nil {
				taskErr = fmt.Errorf("thumbnail generation failed: %w", genErr)
				log.Printf("Worker: ERROR %v", taskErr)
			} else {
				thumbPathPtr = &thumbSavePath
				log.Printf("Worker: Generated thumbnail for submission %d", job.SubmissionID)
			}
		}
	}

	dbErr := pp.Photos.UpdateThumbnailResult(job.SubmissionID, thumbPathPtr, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating thumbnail result for submission %d: %v", job.SubmissionID, dbErr)
	}
	pp.reportTask(job, TaskThumbnail, taskErr)
}

func (pp *PhotoProcessor) processMetadataTask(job PhotoJob) {
	var taskErr error
	var metadata *media.Metadata

	if _, statErr := os.Stat(job.ImagePath); os.IsNotExist(statErr) {
		taskErr = fmt.Errorf("original file not found: %w", statErr)
		log.Printf("Worker: Skipping metadata task for submission %d: %v", job.SubmissionID, taskErr)
	} else if statErr != nil {
		taskErr = fmt.Errorf("failed to stat original file: %w", statErr)
		log.Printf("Worker: ERROR stating file for metadata task, submission %d: %v", job.SubmissionID, taskErr)
	} else {
		metadata, taskErr = utils.GetImageMetadata(job.ImagePath)
		if taskErr != nil {
			log.Printf("Worker: ERROR extracting metadata for submission %d: %v", job.SubmissionID, taskErr)
		} else {
			log.Printf("Worker: Extracted metadata for submission %d", job.SubmissionID)
		}
	}

	dbErr := pp.Photos.UpdateMetadataResult(job.SubmissionID, metadata, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating metadata result for submission %d: %v", job.SubmissionID, dbErr)
	}
	pp.reportTask(job, TaskMetadata, taskErr)
}

// processScoreTask assigns a contest score and pushes a live update
func (pp *PhotoProcessor) processScoreTask(job PhotoJob) {
	var taskErr error
	var score int

	if _, statErr := os.Stat(job.ImagePath); os.IsNotExist(statErr) {
		taskErr = fmt.Errorf("original file not found: %w", statErr)
		log.Printf("Worker: Skipping score task for submission %d: %v", job.SubmissionID, taskErr)
	} else if statErr != nil {
		taskErr = fmt.Errorf("failed to stat original file: %w", statErr)
		log.Printf("Worker: ERROR stating file for score task, submission %d: %v", job.SubmissionID, taskErr)
	} else {
		score, taskErr = pp.Scorer.Score(job.ImagePath)
		if taskErr != nil {
			log.Printf("Worker: ERROR scoring submission %d: %v", job.SubmissionID, taskErr)
		} else {
			log.Printf("Worker: Scored submission %d: %d", job.SubmissionID, score)
		}
	}

	dbErr := pp.Photos.UpdateScoreResult(job.SubmissionID, score, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating score result for submission %d: %v", job.SubmissionID, dbErr)
	}
	pp.reportTask(job, TaskScore, taskErr)

	if taskErr == nil && dbErr == nil && pp.Hub != nil {
		pp.Hub.Broadcast(realtime.Event{
			Type:         realtime.EventSubmissionScored,
			RoomID:       job.RoomID,
			SubmissionID: job.SubmissionID,
			VisitorID:    job.VisitorID,
			Score:        score,
			Timestamp:    time.Now().Unix(),
		})
	}
}

// reportTask records the task outcome in metrics and, on failure, notifies
// any connected dashboards.
func (pp *PhotoProcessor) reportTask(job PhotoJob, task string, taskErr error) {
	status := models.StatusDone
	if taskErr != nil {
		status = models.StatusError
	}
	metrics.ProcessingTasks.WithLabelValues(task, status).Inc()

	if taskErr != nil && pp.Hub != nil {
		pp.Hub.Broadcast(realtime.Event{
			Type:         realtime.EventTaskFailed,
			RoomID:       job.RoomID,
			SubmissionID: job.SubmissionID,
			Task:         task,
			Status:       status,
			Error:        taskErr.Error(),
			Timestamp:    time.Now().Unix(),
		})
	}
}

// QueueJob queues a specific task if not already pending
func (pp *PhotoProcessor) QueueJob(job PhotoJob) bool {
	// use composite key: "submissionID:taskType"
	pendingKey := fmt.Sprintf("%d:%s", job.SubmissionID, job.TaskType)

	pp.Mutex.Lock()
	if pp.Pending[pendingKey] {
		pp.Mutex.Unlock()
		return false
	}

	pp.Pending[pendingKey] = true
	pp.Mutex.Unlock()

	select {
	case pp.JobQueue <- job:
		log.Printf("Queued task '%s' for submission %d", job.TaskType, job.SubmissionID)
		return true
	default:
		log.Printf("WARNING: Photo processing job queue full. Failed to queue task '%s' for submission %d", job.TaskType, job.SubmissionID)
		pp.Mutex.Lock()
		delete(pp.Pending, pendingKey)
		pp.Mutex.Unlock()
		return false
	}
}

// QueueAllTasks enqueues the full processing pipeline for a new submission.
func (pp *PhotoProcessor) QueueAllTasks(submission *models.PhotoSubmission, imagePath string) {
	for _, task := range []string{TaskThumbnail, TaskMetadata, TaskScore} {
		pp.QueueJob(PhotoJob{
			SubmissionID: submission.ID,
			RoomID:       submission.RoomID,
			VisitorID:    submission.VisitorID,
			ImagePath:    imagePath,
			TaskType:     task,
		})
	}
}

func (pp *PhotoProcessor) Stop() {
	log.Println("Stopping photo processor workers...")
	close(pp.StopChan)
	pp.Wg.Wait()
	log.Println("All photo processor workers stopped")
}
