package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DiskSuite struct {
	suite.Suite
	dir string
}

func TestDisk(t *testing.T) {
	suite.Run(t, &DiskSuite{})
}

func (suite *DiskSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *DiskSuite) TestStat() {
	u, err := Stat(suite.dir)
	suite.Require().NoError(err)
	suite.NotZero(u.Total)
	suite.LessOrEqual(u.Free, u.Total)
	suite.LessOrEqual(u.Avail, u.Free)
	suite.Equal(u.Total-u.Free, u.Used())
}

func (suite *DiskSuite) TestStatFile() {
	p := filepath.Join(suite.dir, "f0.dat")
	suite.Require().NoError(os.WriteFile(p, []byte("data"), 0644))
	fromFile, err := Stat(p)
	suite.Require().NoError(err)
	fromDir, err := Stat(suite.dir)
	suite.Require().NoError(err)
	suite.Equal(fromDir.Total, fromFile.Total, "same volume")
}

func (suite *DiskSuite) TestStatMissing() {
	_, err := Stat(filepath.Join(suite.dir, "missing"))
	suite.True(errors.Is(err, os.ErrNotExist))
}
