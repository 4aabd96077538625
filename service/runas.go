package service

import (
	"os/user"
	"strconv"
	"syscall"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// LookupCredential resolves user and group, each either a name or a numeric
// id, into a credential for running child processes under that identity.
// Empty strings default to the current process identity for that component.
// Returns nil when neither is set, so no privilege drop is attempted at all.
func LookupCredential(userName, groupName string) (*syscall.Credential, error) {
	if userName == "" && groupName == "" {
		return nil, nil
	}

	cred := &syscall.Credential{
		Uid: uint32(syscall.Getuid()),
		Gid: uint32(syscall.Getgid()),
	}

	if userName != "" {
		uid, err := lookupUID(userName)
		if err != nil {
			return nil, err
		}
		cred.Uid = uid
	}
	if groupName != "" {
		gid, err := lookupGID(groupName)
		if err != nil {
			return nil, err
		}
		cred.Gid = gid
	}
	return cred, nil
}

func lookupUID(name string) (uint32, error) {
	if uid, err := strconv.ParseUint(name, 10, 32); err == nil {
		return uint32(uid), nil
	}
	usr, err := user.Lookup(name)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeInvalidConfig,
			"unable to find user %q", name)
	}
	uid, err := strconv.ParseUint(usr.Uid, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeInvalidConfig,
			"non-numeric uid for user %q", name)
	}
	return uint32(uid), nil
}

func lookupGID(name string) (uint32, error) {
	if gid, err := strconv.ParseUint(name, 10, 32); err == nil {
		return uint32(gid), nil
	}
	grp, err := user.LookupGroup(name)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeInvalidConfig,
			"unable to find group %q", name)
	}
	gid, err := strconv.ParseUint(grp.Gid, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeInvalidConfig,
			"non-numeric gid for group %q", name)
	}
	return uint32(gid), nil
}
