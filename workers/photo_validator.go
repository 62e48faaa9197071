package workers

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/recognition"
	"github.com/priyansh-dev/attendancebackend/repository"
)

// PhotoJob asks for one student's reference photo to be validated.
type PhotoJob struct {
	StudentID uint
	PhotoPath string // absolute filesystem path
}

// LocatorFactory builds a face locator for one worker. Each worker owns its
// own instance so background validation never contends with request-path
// detection for a shared classifier.
type LocatorFactory func() (recognition.FaceLocator, error)

// PhotoValidator runs reference photo validation off the request path: it
// checks that an uploaded photo actually contains a detectable face and
// records the outcome on the student row.
type PhotoValidator struct {
	JobQueue   chan PhotoJob
	Students   repository.StudentRepositoryInterface
	NewLocator LocatorFactory
	Wg         sync.WaitGroup
	StopChan   chan struct{}
	Pending    map[uint]bool
	Mutex      sync.Mutex
}

// NewPhotoValidator starts the worker pool.
func NewPhotoValidator(students repository.StudentRepositoryInterface, newLocator LocatorFactory, queueSize, numWorkers int) *PhotoValidator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	validator := &PhotoValidator{
		JobQueue:   make(chan PhotoJob, queueSize),
		Students:   students,
		NewLocator: newLocator,
		StopChan:   make(chan struct{}),
		Pending:    make(map[uint]bool),
	}
	validator.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go validator.worker(i)
	}
	log.Printf("Started %d photo validation worker(s) with queue size %d", numWorkers, queueSize)
	return validator
}

// QueueValidation enqueues a job unless one is already pending for the same
// student. Reports whether the job was queued.
func (pv *PhotoValidator) QueueValidation(job PhotoJob) bool {
	pv.Mutex.Lock()
	if pv.Pending[job.StudentID] {
		pv.Mutex.Unlock()
		return false
	}
	pv.Pending[job.StudentID] = true
	pv.Mutex.Unlock()

	select {
	case pv.JobQueue <- job:
		return true
	default:
		pv.Mutex.Lock()
		delete(pv.Pending, job.StudentID)
		pv.Mutex.Unlock()
		log.Printf("Worker queue full, dropping validation job for student %d", job.StudentID)
		return false
	}
}

// Stop shuts the pool down and waits for in-flight jobs.
func (pv *PhotoValidator) Stop() {
	close(pv.StopChan)
	pv.Wg.Wait()
}

// worker loads its own locator and processes jobs from the queue. A worker
// whose locator fails to load keeps draining the queue, recording the
// failure on each job, so pending entries never leak and students are not
// stuck unqueueable.
func (pv *PhotoValidator) worker(id int) {
	defer pv.Wg.Done()

	locator, err := pv.NewLocator()
	if err != nil {
		log.Printf("Worker %d: failed to load face locator: %v", id, err)
	} else {
		if closer, ok := locator.(interface{ Close() }); ok {
			defer closer.Close()
		}
		log.Printf("Photo validation worker %d started", id)
	}

	for {
		select {
		case job, ok := <-pv.JobQueue:
			if !ok {
				log.Printf("Photo validation worker %d stopping: queue closed", id)
				return
			}
			if err != nil {
				pv.recordUnavailable(id, job, err)
			} else {
				pv.validate(id, locator, job)
			}

			pv.Mutex.Lock()
			delete(pv.Pending, job.StudentID)
			pv.Mutex.Unlock()

		case <-pv.StopChan:
			log.Printf("Photo validation worker %d stopping: stop signal received", id)
			return
		}
	}
}

// recordUnavailable marks a job's student as errored when the worker has no
// usable locator.
func (pv *PhotoValidator) recordUnavailable(id int, job PhotoJob, loadErr error) {
	detail := fmt.Sprintf("face locator unavailable: %v", loadErr)
	if err := pv.Students.SetPhotoStatus(job.StudentID, models.PhotoStatusError, &detail); err != nil {
		log.Printf("Worker %d: failed to record photo status for student %d: %v", id, job.StudentID, err)
	}
}

func (pv *PhotoValidator) validate(id int, locator recognition.FaceLocator, job PhotoJob) {
	faces, err := recognition.CountFacesInFile(locator, job.PhotoPath)
	if err != nil {
		status := models.PhotoStatusError
		if errors.Is(err, recognition.ErrImageUnreadable) {
			log.Printf("Worker %d: unreadable reference photo for student %d", id, job.StudentID)
		} else {
			log.Printf("Worker %d: validation failed for student %d: %v", id, job.StudentID, err)
		}
		detail := err.Error()
		if updateErr := pv.Students.SetPhotoStatus(job.StudentID, status, &detail); updateErr != nil {
			log.Printf("Worker %d: failed to record photo status for student %d: %v", id, job.StudentID, updateErr)
		}
		return
	}

	status := models.PhotoStatusOK
	var detail *string
	if faces == 0 {
		status = models.PhotoStatusNoFace
		msg := recognition.ErrNoFaceDetected.Error()
		detail = &msg
	} else if faces > 1 {
		// multiple faces still train, every region maps to this student;
		// note it so an operator can re-shoot a cleaner photo
		msg := fmt.Sprintf("reference photo contains %d faces", faces)
		detail = &msg
	}

	if err := pv.Students.SetPhotoStatus(job.StudentID, status, detail); err != nil {
		log.Printf("Worker %d: failed to record photo status for student %d: %v", id, job.StudentID, err)
		return
	}
	log.Printf("Worker %d: validated photo for student %d: %s (%d face(s))", id, job.StudentID, status, faces)
}
