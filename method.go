// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import "context"

// Method enumerates every request the script runtime may send to the
// host. The wire keeps the string discriminator; see ParseMethod.
type Method uint8

const (
	MethodUnknown Method = iota

	// Session control, handled by the bridge itself.
	MethodInit
	MethodReload

	// Platform capabilities, served by registered handlers.
	MethodInitPushNotifications
	MethodGenerateRsaKey
	MethodRsaEncrypt
	MethodRsaDecrypt
	MethodAesEncryptFile
	MethodAesDecryptFile
	MethodOpen
	MethodOpenFileChooser
	MethodDeleteFile
	MethodGetName
	MethodGetMimeType
	MethodGetSize
	MethodUpload
	MethodDownload
	MethodJoinFiles
	MethodSplitFile
	MethodClearFileData
	MethodFindSuggestions
	MethodOpenLink
	MethodShareText
	MethodGetPushIdentifier
	MethodStorePushIdentifierLocally
	MethodClosePushNotifications
	MethodReadFile
	MethodWriteFile
	MethodGetSelectedTheme
	MethodSetSelectedTheme
	MethodGetThemes
	MethodSetThemes
	MethodSaveBlob
	MethodPutFileIntoDownloads
	MethodGetDeviceLog
	MethodChangeLanguage
	MethodScheduleAlarms
	MethodEncryptUsingKeychain
	MethodDecryptUsingKeychain
	MethodGetSupportedEncryptionModes
	MethodHashFile

	methodCount
)

var methodNames = [methodCount]string{
	MethodUnknown:                     "",
	MethodInit:                        "init",
	MethodReload:                      "reload",
	MethodInitPushNotifications:       "initPushNotifications",
	MethodGenerateRsaKey:              "generateRsaKey",
	MethodRsaEncrypt:                  "rsaEncrypt",
	MethodRsaDecrypt:                  "rsaDecrypt",
	MethodAesEncryptFile:              "aesEncryptFile",
	MethodAesDecryptFile:              "aesDecryptFile",
	MethodOpen:                        "open",
	MethodOpenFileChooser:             "openFileChooser",
	MethodDeleteFile:                  "deleteFile",
	MethodGetName:                     "getName",
	MethodGetMimeType:                 "getMimeType",
	MethodGetSize:                     "getSize",
	MethodUpload:                      "upload",
	MethodDownload:                    "download",
	MethodJoinFiles:                   "joinFiles",
	MethodSplitFile:                   "splitFile",
	MethodClearFileData:               "clearFileData",
	MethodFindSuggestions:             "findSuggestions",
	MethodOpenLink:                    "openLink",
	MethodShareText:                   "shareText",
	MethodGetPushIdentifier:           "getPushIdentifier",
	MethodStorePushIdentifierLocally:  "storePushIdentifierLocally",
	MethodClosePushNotifications:      "closePushNotifications",
	MethodReadFile:                    "readFile",
	MethodWriteFile:                   "writeFile",
	MethodGetSelectedTheme:            "getSelectedTheme",
	MethodSetSelectedTheme:            "setSelectedTheme",
	MethodGetThemes:                   "getThemes",
	MethodSetThemes:                   "setThemes",
	MethodSaveBlob:                    "saveBlob",
	MethodPutFileIntoDownloads:        "putFileIntoDownloads",
	MethodGetDeviceLog:                "getDeviceLog",
	MethodChangeLanguage:              "changeLanguage",
	MethodScheduleAlarms:              "scheduleAlarms",
	MethodEncryptUsingKeychain:        "encryptUsingKeychain",
	MethodDecryptUsingKeychain:        "decryptUsingKeychain",
	MethodGetSupportedEncryptionModes: "getSupportedEncryptionModes",
	MethodHashFile:                    "hashFile",
}

var methodByName = func() map[string]Method {
	m := make(map[string]Method, methodCount)
	for i := MethodInit; i < methodCount; i++ {
		m[methodNames[i]] = i
	}
	return m
}()

// ParseMethod maps a wire method name to its Method.
func ParseMethod(name string) (Method, bool) {
	m, ok := methodByName[name]
	return m, ok
}

// String returns the wire name of m.
func (m Method) String() string {
	if m >= methodCount {
		return ""
	}
	return methodNames[m]
}

// Handler serves one platform capability. It receives the decoded
// arguments of a single request and returns a JSON-compatible value or
// an error. Returning an *Error reports its Kind to the caller; any
// other error is reported as KindHandlerFailure.
//
// Handlers run concurrently with each other and with outbound calls.
// A handler that needs exclusivity must arrange it itself. Handle may
// block for as long as the operation takes; ctx ends when the bridge
// stops serving.
type Handler interface {
	Handle(ctx context.Context, args Args) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Handle calls f(ctx, args).
func (f HandlerFunc) Handle(ctx context.Context, args Args) (any, error) {
	return f(ctx, args)
}

// Handlers is the fixed method table of a bridge.
type Handlers map[Method]Handler

// Reloader restarts the script runtime. params is the parameter object
// of the reload request, or nil.
type Reloader func(ctx context.Context, params map[string]any) error
